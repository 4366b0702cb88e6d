package config

import "github.com/caarlos0/env/v11"

// GameConfig holds the process-wide duel tuning knobs. They apply to every
// session; there are no per-session overrides.
type GameConfig struct {
	GridSize    int    `env:"GRID_SIZE" envDefault:"8"`
	PickRounds  int    `env:"PICK_ROUNDS" envDefault:"3"`
	PickChoices int    `env:"PICK_CHOICES" envDefault:"3"`
	DrawSeconds int    `env:"DRAW_SECONDS" envDefault:"90"`
	GuessMaxLen int    `env:"GUESS_MAX_LEN" envDefault:"40"`
	JudgeMode   string `env:"JUDGE_MODE" envDefault:"vote"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
