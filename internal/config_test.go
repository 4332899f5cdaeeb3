package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func validEnviron() env.EnvSet {
	return env.EnvSet{
		"HTTP_PORT":              "5000",
		"GRPC_PORT":              "5001",
		"LOG_LEVEL":              "DEBUG",
		"BADGER_FILEPATH":        "/tmp/dm-lab/badger",
		"BLUGE_FILEPATH":         "/tmp/dm-lab/bluge",
		"TOKEN_KEY":              "0123456789abcdef0123456789abcdef",
		"AUTH_TOKEN_DURATION":    "24h",
		"BUFFER_SIZE":            "1024",
		"CONNECTION_BUFFER_SIZE": "64",
		"NUMBER_OF_WORKERS":      "4",
		"SINK_TIMEOUT":           "200ms",
		"RESTART_INTERVAL":       "500ms",
	}
}

func load(t *testing.T, environ env.EnvSet) Config {
	t.Helper()
	var config Config
	err := env.Unmarshal(environ, &config)
	require.NoError(t, err)
	return config
}

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)

	config := load(t, validEnviron())

	req.NoError(config.Validate())
	req.Equal("0.0.0.0", config.Host)
	req.Equal(PresenceMemory, config.PresenceBackend)
	req.Equal(2*time.Minute, config.PresenceTTL)
	req.Equal(2000, config.MaxContentLength)
	req.Equal("*", config.CharReplacement)
	req.Empty(config.Brokers())
}

func TestConfig_Missing_Required_Key(t *testing.T) {
	req := require.New(t)
	environ := validEnviron()
	delete(environ, "TOKEN_KEY")

	var config Config
	err := env.Unmarshal(environ, &config)

	req.Error(err)
}

func TestConfig_Cross_Field_Rules(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]string
	}{
		{"redis backend needs an address", map[string]string{"PRESENCE_BACKEND": "redis"}},
		{"unknown presence backend", map[string]string{"PRESENCE_BACKEND": "etcd"}},
		{"same port twice", map[string]string{"GRPC_PORT": "5000"}},
		{"short token key", map[string]string{"TOKEN_KEY": "short"}},
		{"index inside the store", map[string]string{"BLUGE_FILEPATH": "/tmp/dm-lab/badger"}},
		{"no workers", map[string]string{"NUMBER_OF_WORKERS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := validEnviron()
			for key, value := range tt.patch {
				environ[key] = value
			}
			require.Error(t, load(t, environ).Validate())
		})
	}
}

func TestConfig_Brokers(t *testing.T) {
	req := require.New(t)
	environ := validEnviron()
	environ["KAFKA_BROKERS"] = "kafka-1:9092, kafka-2:9092,,"

	config := load(t, environ)

	req.NoError(config.Validate())
	req.Equal([]string{"kafka-1:9092", "kafka-2:9092"}, config.Brokers())
	req.Equal("dm.events", config.KafkaTopic)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("€")
	req.NoError(err)
	req.Equal('€', r)

	_, err = CharacterRune("**")
	req.Error(err)
}
