package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	PresenceMemory = "memory"
	PresenceRedis  = "redis"
)

type Config struct {
	Host      string `env:"HOST,default=0.0.0.0"`
	HTTPPort  int    `env:"HTTP_PORT,required=true" validate:"min=1,max=65535"`
	GRPCPort  int    `env:"GRPC_PORT,required=true" validate:"min=1,max=65535,nefield=HTTPPort"`
	DebugPort int    `env:"DEBUG_PORT,default=0" validate:"min=0,max=65535"`
	LogLevel  string `env:"LOG_LEVEL,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true" validate:"required"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH" validate:"omitempty,nefield=BadgerFilepath"`

	TokenKey          string        `env:"TOKEN_KEY,required=true" validate:"min=32"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true" validate:"gt=0"`

	BufferSize           int           `env:"BUFFER_SIZE,required=true" validate:"gt=0"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true" validate:"gt=0"`
	NumberOfWorkers      int           `env:"NUMBER_OF_WORKERS,required=true" validate:"gt=0"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true" validate:"gt=0"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=10s" validate:"gt=0"`
	LatencyThreshold     time.Duration `env:"LATENCY_THRESHOLD,default=500ms" validate:"min=0"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=16" validate:"min=0"`

	PresenceBackend string        `env:"PRESENCE_BACKEND,default=memory" validate:"oneof=memory redis"`
	RedisAddr       string        `env:"REDIS_ADDR" validate:"required_if=PresenceBackend redis"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB,default=0" validate:"min=0"`
	PresenceTTL     time.Duration `env:"PRESENCE_TTL,default=2m" validate:"gt=0"`

	KafkaBrokers string `env:"KAFKA_BROKERS"`
	KafkaTopic   string `env:"KAFKA_TOPIC,default=dm.events" validate:"required_with=KafkaBrokers"`

	ModerationEnabled bool   `env:"MODERATION_ENABLED,default=false"`
	CharReplacement   string `env:"CHARACTER_REPLACEMENT,default=*"`
	MaxContentLength  int    `env:"MAX_CONTENT_LENGTH,default=2000" validate:"min=0"`
}

var validate = validator.New()

// Validate checks the cross-field rules go-env cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Brokers splits KAFKA_BROKERS on commas; empty when the event stream is disabled.
func (c Config) Brokers() []string {
	var brokers []string
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
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
