package counter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const updatesChannel = "lobby-updates"

// Service is the shared lobby counter. The authoritative value lives in
// redis; every mutation is published on a pub/sub channel so all server
// instances fan the update out to their local sockets.
type Service struct {
	client   *redis.Client
	pubsub   *redis.PubSub
	upgrader websocket.Upgrader

	mu      sync.Mutex
	lobbies map[string]*lobby
}

type lobby struct {
	players map[*client]bool
	viewers map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	role string
}

// update is the frame every lobby member receives: the counter value and the
// local occupancy.
type update struct {
	V int64 `json:"v"`
	C int   `json:"c"`
}

type published struct {
	ID  string `json:"id"`
	Val int64  `json:"val"`
}

func New(url string) (*Service, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rc := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return NewWithClient(rc), nil
}

// NewWithClient wraps an existing redis client (for testing).
func NewWithClient(rc *redis.Client) *Service {
	s := &Service{
		client:   rc,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		lobbies:  map[string]*lobby{},
	}
	s.pubsub = rc.Subscribe(context.Background(), updatesChannel)
	// wait for the subscription confirmation so no update published right
	// after construction is missed
	_, _ = s.pubsub.Receive(context.Background())
	go s.listen()
	return s
}

func (s *Service) Close() error {
	_ = s.pubsub.Close()
	return s.client.Close()
}

func (s *Service) listen() {
	for msg := range s.pubsub.Channel() {
		var p published
		if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
			log.Error().Err(err).Msg("bad lobby update payload")
			continue
		}
		s.fanOut(p.ID, p.Val)
	}
}

func (s *Service) fanOut(lobbyID string, val int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lb := s.lobbies[lobbyID]
	if lb == nil {
		return
	}
	payload, _ := json.Marshal(update{V: val, C: lb.size()})
	for c := range lb.players {
		safeSend(c.send, payload)
	}
	for c := range lb.viewers {
		safeSend(c.send, payload)
	}
}

func (lb *lobby) size() int {
	return len(lb.players) + len(lb.viewers)
}

// join adds a client to a lobby and returns the local occupancy after the
// add. A third player is refused; viewers are unlimited.
func (s *Service) join(lobbyID string, c *client) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lb := s.lobbies[lobbyID]
	if lb == nil {
		lb = &lobby{players: map[*client]bool{}, viewers: map[*client]bool{}}
		s.lobbies[lobbyID] = lb
	}
	if c.role == "player" {
		if len(lb.players) >= 2 {
			return 0, false
		}
		lb.players[c] = true
	} else {
		lb.viewers[c] = true
	}
	return lb.size(), true
}

func (s *Service) leave(lobbyID string, c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lb := s.lobbies[lobbyID]
	if lb == nil {
		return
	}
	delete(lb.players, c)
	delete(lb.viewers, c)
	if lb.size() == 0 {
		delete(s.lobbies, lobbyID)
	}
}

// apply executes a player command against redis and publishes the new value.
// Unknown commands are ignored.
func (s *Service) apply(ctx context.Context, lobbyID, action string) error {
	var val int64
	var err error
	switch action {
	case "INC":
		val, err = s.client.Incr(ctx, "lobby:"+lobbyID).Result()
	case "DEC":
		val, err = s.client.Decr(ctx, "lobby:"+lobbyID).Result()
	default:
		return nil
	}
	if err != nil {
		return err
	}
	payload, _ := json.Marshal(published{ID: lobbyID, Val: val})
	return s.client.Publish(ctx, updatesChannel, payload).Err()
}

func (s *Service) currentValue(ctx context.Context, lobbyID string) int64 {
	val, err := s.client.Get(ctx, "lobby:"+lobbyID).Int64()
	if err != nil {
		return 0
	}
	return val
}

// HandleWS serves one lobby member at /ws/counter/{lobbyID}?role=player|viewer.
func (s *Service) HandleWS(w http.ResponseWriter, r *http.Request) {
	lobbyID := chi.URLParam(r, "lobbyID")
	if lobbyID == "" {
		http.Error(w, "missing lobby id", http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16), role: r.URL.Query().Get("role")}
	count, ok := s.join(lobbyID, c)
	if !ok {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Lobby full"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	go c.writeLoop()

	payload, _ := json.Marshal(update{V: s.currentValue(r.Context(), lobbyID), C: count})
	safeSend(c.send, payload)

	s.readLoop(lobbyID, c)
}

func (s *Service) readLoop(lobbyID string, c *client) {
	defer func() {
		s.leave(lobbyID, c)
		safeClose(c.send)
		_ = c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if c.role != "player" {
			continue
		}
		action := parseAction(msg)
		if err := s.apply(context.Background(), lobbyID, action); err != nil {
			log.Error().Err(err).Str("lobby", lobbyID).Msg("counter command failed")
		}
	}
}

// parseAction accepts both a bare command string and {"action": "..."}.
func parseAction(msg []byte) string {
	raw := strings.TrimSpace(string(msg))
	if strings.HasPrefix(raw, "{") {
		var frame struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(msg, &frame); err != nil {
			return ""
		}
		return frame.Action
	}
	return raw
}

func (c *client) writeLoop() {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case ch <- msg:
	default:
	}
}
