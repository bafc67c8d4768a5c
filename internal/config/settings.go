package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings is everything that varies per deployment. Components receive the
// parts they need through their constructors.
type Settings struct {
	IsProd   bool   `mapstructure:"is_prod"`
	LogLevel string `mapstructure:"log_level"`

	ListenAddr string `mapstructure:"listen_addr"`

	Bucket       string `mapstructure:"s3_bucket_name"`
	AWSRegion    string `mapstructure:"aws_region"`
	AWSAccessKey string `mapstructure:"aws_access_key_id"`
	AWSSecretKey string `mapstructure:"aws_secret_access_key"`
	S3Endpoint   string `mapstructure:"s3_endpoint"`

	StoreBackend  string `mapstructure:"store_backend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	OCRProvider string `mapstructure:"ocr_provider"`

	EmbeddingProvider  string `mapstructure:"embedding_provider"`
	EmbeddingModel     string `mapstructure:"embedding_model"`
	EmbeddingDimension int32  `mapstructure:"embedding_dimension"`
	BedrockRegion      string `mapstructure:"bedrock_region"`
	GoogleAPIKey       string `mapstructure:"google_api_key"`
	OpenAIAPIKey       string `mapstructure:"openai_api_key"`

	CatalogFile string `mapstructure:"catalog_file"`
	ChunkSize   int    `mapstructure:"chunk_size"`

	AMQPURL   string `mapstructure:"amqp_url"`
	AMQPQueue string `mapstructure:"amqp_queue"`

	PollAttempts int           `mapstructure:"poll_attempts"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

var settingKeys = []string{
	"is_prod", "log_level", "listen_addr",
	"s3_bucket_name", "aws_region", "aws_access_key_id", "aws_secret_access_key", "s3_endpoint",
	"store_backend", "redis_addr", "redis_password",
	"ocr_provider",
	"embedding_provider", "embedding_model", "embedding_dimension", "bedrock_region",
	"google_api_key", "openai_api_key",
	"catalog_file", "chunk_size",
	"amqp_url", "amqp_queue",
	"poll_attempts", "poll_interval",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("is_prod", false)
	v.SetDefault("log_level", "debug")
	v.SetDefault("listen_addr", ServerListenAddr)
	v.SetDefault("store_backend", StoreBackendS3)
	v.SetDefault("redis_addr", RedisAddr)
	v.SetDefault("ocr_provider", OCRProviderTextract)
	v.SetDefault("embedding_provider", DefaultProviderEmbedder)
	v.SetDefault("embedding_dimension", DefaultEmbeddingDim)
	v.SetDefault("bedrock_region", BedrockRegion)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("amqp_queue", AMQPQueue)
	v.SetDefault("poll_attempts", PollAttempts)
	v.SetDefault("poll_interval", PollInterval)
}

// Load reads settings from the environment, an optional .env file in the
// working directory and an optional config file. Environment wins.
func Load(configFile string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range settingKeys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if s.EmbeddingModel == "" {
		s.EmbeddingModel = defaultModelFor(s.EmbeddingProvider)
	}
	return &s, nil
}

func defaultModelFor(provider string) string {
	switch provider {
	case "google":
		return GoogleEmbeddingModel
	case "openai":
		return OpenAIEmbeddingModel
	default:
		return BedrockEmbeddingModel
	}
}

// Validate checks the settings a backend process cannot start without.
func (s *Settings) Validate() error {
	var errs []error
	if s.Bucket == "" && s.StoreBackend != StoreBackendMemory {
		errs = append(errs, errors.New("S3_BUCKET_NAME is required"))
	}
	switch s.StoreBackend {
	case StoreBackendS3, StoreBackendRedis, StoreBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", s.StoreBackend))
	}
	switch s.OCRProvider {
	case OCRProviderTextract, OCRProviderPDF:
	default:
		errs = append(errs, fmt.Errorf("unknown OCR_PROVIDER %q", s.OCRProvider))
	}
	switch s.EmbeddingProvider {
	case "bedrock":
	case "google":
		if s.GoogleAPIKey == "" {
			errs = append(errs, errors.New("GOOGLE_API_KEY is required for the google embedder"))
		}
	case "openai":
		if s.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai embedder"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EMBEDDING_PROVIDER %q", s.EmbeddingProvider))
	}
	if s.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("CHUNK_SIZE must be positive, got %d", s.ChunkSize))
	}
	if s.PollAttempts <= 0 {
		errs = append(errs, fmt.Errorf("POLL_ATTEMPTS must be positive, got %d", s.PollAttempts))
	}
	return errors.Join(errs...)
}
