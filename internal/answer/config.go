package answer

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ANSWER"

	BackendOpenAI = "openai"
	BackendEcho   = "echo"
)

var ErrInvalidConfig = errors.New("invalid answer server config")

// Config holds the answer server settings, read from ANSWER_* variables.
// Keys are derived from the field names (OpenaiAPIKey is
// ANSWER_OPENAI_API_KEY). Only the API key falls back to an unprefixed
// variable, OPENAI_API_KEY.
type Config struct {
	Addr           string        `split_words:"true" default:":8080"`
	Backend        string        `split_words:"true" default:"openai"`
	Model          string        `split_words:"true" default:"gpt-4o-mini"`
	OpenaiAPIKey   string        `split_words:"true"`
	OpenaiBaseURL  string        `split_words:"true" default:"https://api.openai.com/v1"`
	PromptFile     string        `split_words:"true"`
	AllowedOrigins []string      `split_words:"true" default:"http://localhost:3000,http://localhost,http://localhost:8080"`
	Timeout        time.Duration `split_words:"true" default:"60s"`

	// Retrieval augments every prompt with documents found in Qdrant.
	Retrieval           bool    `split_words:"true" default:"false"`
	QdrantHost          string  `split_words:"true" default:"localhost"`
	QdrantPort          int     `split_words:"true" default:"6334"`
	QdrantAPIKey        string  `split_words:"true"`
	QdrantTLS           bool    `split_words:"true" default:"false"`
	Collection          string  `split_words:"true" default:"demo_collection"`
	EmbeddingModel      string  `split_words:"true" default:"text-embedding-3-small"`
	EmbeddingDimensions int     `split_words:"true" default:"1536"`
	TopK                int     `split_words:"true" default:"10"`
	ScoreThreshold      float32 `split_words:"true" default:"0"`
}

// LoadConfig exports envFile (if any) into the environment and processes
// the ANSWER_* variables.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := exportEnvironment(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	var conf Config
	if err := envconfig.Process(EnvPrefix, &conf); err != nil {
		return nil, err
	}
	if conf.OpenaiAPIKey == "" {
		conf.OpenaiAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks backend specific requirements
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOpenAI:
		if strings.TrimSpace(c.OpenaiAPIKey) == "" {
			return fmt.Errorf("%w: openai api key is required (set %s_OPENAI_API_KEY or OPENAI_API_KEY)", ErrInvalidConfig, EnvPrefix)
		}
		if strings.TrimSpace(c.Model) == "" {
			return fmt.Errorf("%w: model is required", ErrInvalidConfig)
		}
	case BackendEcho:
	default:
		return fmt.Errorf("%w: unsupported backend: %s", ErrInvalidConfig, c.Backend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.Retrieval {
		if err := c.ValidateRetrieval(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRetrieval checks the settings needed to embed text and query
// Qdrant. Embeddings always go through OpenAI, whatever the backend.
func (c *Config) ValidateRetrieval() error {
	if strings.TrimSpace(c.OpenaiAPIKey) == "" {
		return fmt.Errorf("%w: retrieval needs an openai api key for embeddings", ErrInvalidConfig)
	}
	if c.Collection == "" {
		return fmt.Errorf("%w: collection is required", ErrInvalidConfig)
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive", ErrInvalidConfig)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top k must be positive", ErrInvalidConfig)
	}
	return nil
}

func exportEnvironment(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		// real environment wins over the file
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}
