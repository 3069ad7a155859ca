package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	BufferSize      int           `env:"BUFFER_SIZE,default=256" validate:"gt=0"`
	RecentWindow    int           `env:"RECENT_WINDOW,default=20" validate:"gt=0"`
	PageSize        int           `env:"PAGE_SIZE,default=50" validate:"gt=0"`
	CharReplacement string        `env:"CHARACTER_REPLACEMENT,default=*" validate:"required"`
	SessionTTL      time.Duration `env:"SESSION_TTL,default=2s"`
	SinkTimeout     time.Duration `env:"SINK_TIMEOUT,default=500ms"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=5s"`
	AITimeout       time.Duration `env:"AI_TIMEOUT,default=30s"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	DebugPort      int    `env:"DEBUG_PORT,default=8081"`
}

// Validate applies the struct-level constraints go-env cannot express.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
