package ws

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"pixelduel/internal/config"
	"pixelduel/internal/game"
	"pixelduel/internal/store"
)

// Server pairs connections from a FIFO queue into duel sessions. The queue,
// the session map and every client's flags are guarded by one mutex; all
// in-session game logic runs on the session goroutine instead.
type Server struct {
	cfg      config.GameConfig
	judge    game.Judge
	bridge   Bridge
	upgrader websocket.Upgrader
	newID    func() string

	mu       sync.Mutex
	queue    []*Client
	sessions map[string]*Session
}

func NewServer(cfg config.GameConfig, bridge Bridge) *Server {
	var judge game.Judge = game.VoteJudge{}
	if cfg.JudgeMode == "guess" {
		judge = game.GuessJudge{MaxLen: cfg.GuessMaxLen}
	}
	return &Server{
		cfg:      cfg,
		judge:    judge,
		bridge:   bridge,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		newID:    store.NewID,
		sessions: map[string]*Session{},
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = "anon"
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		username = "Anonymous"
	}
	client := &Client{conn: conn, send: make(chan []byte, 32), userID: userID, username: username}

	go client.writeLoop()
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			continue
		}
		s.dispatch(c, env)
	}
}

func (s *Server) dispatch(c *Client, env Envelope) {
	switch env.Action {
	case "ready":
		s.handleReady(c)
	case "cancel_ready":
		s.handleCancelReady(c)
	case "exit":
		s.mu.Lock()
		s.removeFromQueue(c)
		s.mu.Unlock()
		s.route(c, event{kind: leaveEvent})
	case "pick_choice", "draw", "clear", "submit", "judge", "rematch_consent":
		s.route(c, event{kind: actionEvent, env: env})
	}
}

// route forwards an event to the client's current session, if any. The
// session binding is read under the server mutex; events arriving after
// teardown find no session and fall on the floor.
func (s *Server) route(c *Client, ev event) {
	s.mu.Lock()
	sn := c.session
	ev.seat = c.seat
	s.mu.Unlock()
	if sn == nil {
		return
	}
	sn.deliver(ev)
}

func (s *Server) handleReady(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.closed || c.queued || c.session != nil {
		return
	}
	c.queued = true
	s.queue = append(s.queue, c)
	c.sendJSON(Queued{Type: "queued"})
	s.drainQueue()
}

func (s *Server) handleCancelReady(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFromQueue(c)
	c.sendJSON(QueueCancelled{Type: "queue_cancelled"})
}

func (s *Server) removeFromQueue(c *Client) {
	for i, q := range s.queue {
		if q == c {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}
	c.queued = false
}

// drainQueue pairs the two oldest live entries. A survivor whose partner
// died goes back to the front so queue order is preserved. Caller holds mu.
func (s *Server) drainQueue() {
	for len(s.queue) >= 2 {
		a, b := s.queue[0], s.queue[1]
		s.queue = s.queue[2:]
		a.queued, b.queued = false, false
		if a.closed {
			if !b.closed {
				s.queue = append([]*Client{b}, s.queue...)
				b.queued = true
			}
			continue
		}
		if b.closed {
			s.queue = append([]*Client{a}, s.queue...)
			a.queued = true
			continue
		}
		s.createSession(a, b)
	}
}

// createSession binds both clients to a fresh match and starts its
// goroutine. Caller holds mu.
func (s *Server) createSession(c0, c1 *Client) {
	id := s.newID()
	match := game.NewMatch(id, game.Config{
		GridSize:    s.cfg.GridSize,
		PickRounds:  s.cfg.PickRounds,
		PickChoices: s.cfg.PickChoices,
		GuessMaxLen: s.cfg.GuessMaxLen,
	}, s.judge, rand.New(rand.NewSource(time.Now().UnixNano())),
		game.PlayerRef{ID: c0.userID, Name: c0.username},
		game.PlayerRef{ID: c1.userID, Name: c1.username})

	session := &Session{
		id:           id,
		srv:          s,
		match:        match,
		clients:      [2]*Client{c0, c1},
		events:       make(chan event, 16),
		done:         make(chan struct{}),
		drawDeadline: time.Duration(s.cfg.DrawSeconds) * time.Second,
	}
	c0.seat, c1.seat = 0, 1
	c0.session, c1.session = session, session
	s.sessions[id] = session

	log.Info().Str("game_id", id).Str("p0", c0.userID).Str("p1", c1.userID).Msg("match created")
	go session.run()
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	c.closed = true
	s.removeFromQueue(c)
	sn := c.session
	s.mu.Unlock()

	if sn != nil {
		sn.deliver(event{kind: leaveEvent, seat: c.seat})
	}
	safeClose(c.send)
}

// SessionCount reports the number of live sessions, for the health surface.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
