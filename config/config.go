package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	OpenAI  OpenAIConfig
	CORS    CORSConfig
}

type ServerConfig struct {
	Port            string
	Environment     string
	Version         string
	BasePath        string // prefix for the campaign and message routes, e.g. "/api"
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects the campaign store implementation
type StorageConfig struct {
	Driver string // "mongodb" or "memory"
}

const (
	StorageDriverMongoDB = "mongodb"
	StorageDriverMemory  = "memory"
)

type MongoDBConfig struct {
	URI                string
	Database           string
	CampaignCollection string
	MaxPoolSize        uint64
	MinPoolSize        uint64
	MaxRetries         int
	TLSCAFile          string
	OperationTimeout   time.Duration
}

type RedisConfig struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	CampaignTTL time.Duration
}

type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	ProducerTimeout int
	ClientID        string
	Username        string
	Password        string
	SSL             bool
	SASLMechanism   string
	Topics          KafkaTopics
}

type KafkaTopics struct {
	CampaignEvents string
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Enable reading from environment variables: mongodb.uri -> MONGODB_URI
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	// Try to read config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/campaign-manager")

	// Reading config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use environment variables and defaults
	}

	var config Config

	// Server configuration
	config.Server = ServerConfig{
		Port:            v.GetString("server.port"),
		Environment:     v.GetString("server.environment"),
		Version:         v.GetString("server.version"),
		BasePath:        strings.TrimRight(v.GetString("server.base_path"), "/"),
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		IdleTimeout:     v.GetDuration("server.idle_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
	}

	config.Storage = StorageConfig{
		Driver: strings.ToLower(v.GetString("storage.driver")),
	}

	// MongoDB configuration
	config.MongoDB = MongoDBConfig{
		URI:                v.GetString("mongodb.uri"),
		Database:           v.GetString("mongodb.database"),
		CampaignCollection: v.GetString("mongodb.campaign_collection"),
		MaxPoolSize:        v.GetUint64("mongodb.max_pool_size"),
		MinPoolSize:        v.GetUint64("mongodb.min_pool_size"),
		MaxRetries:         v.GetInt("mongodb.max_retries"),
		TLSCAFile:          v.GetString("mongodb.tls_ca_file"),
		OperationTimeout:   v.GetDuration("mongodb.operation_timeout"),
	}

	// Redis configuration
	config.Redis = RedisConfig{
		Enabled:     v.GetBool("redis.enabled"),
		Addr:        v.GetString("redis.addr"),
		Password:    v.GetString("redis.password"),
		DB:          v.GetInt("redis.db"),
		CampaignTTL: v.GetDuration("redis.campaign_ttl"),
	}

	// Kafka configuration
	config.Kafka = KafkaConfig{
		Enabled:         v.GetBool("kafka.enabled"),
		Brokers:         v.GetStringSlice("kafka.brokers"),
		ProducerTimeout: v.GetInt("kafka.producer_timeout"),
		ClientID:        v.GetString("kafka.client_id"),
		Username:        v.GetString("kafka.username"),
		Password:        v.GetString("kafka.password"),
		SSL:             v.GetBool("kafka.ssl"),
		SASLMechanism:   v.GetString("kafka.sasl_mechanism"),
		Topics: KafkaTopics{
			CampaignEvents: v.GetString("kafka.topics.campaign_events"),
		},
	}

	// OpenAI configuration
	config.OpenAI = OpenAIConfig{
		APIKey:      v.GetString("openai.api_key"),
		BaseURL:     v.GetString("openai.base_url"),
		Model:       v.GetString("openai.model"),
		Temperature: v.GetFloat64("openai.temperature"),
		MaxTokens:   v.GetInt64("openai.max_tokens"),
		Timeout:     v.GetDuration("openai.timeout"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverMongoDB:
		if c.MongoDB.URI == "" || c.MongoDB.Database == "" {
			return fmt.Errorf("mongodb.uri and mongodb.database are required for storage driver %q", c.Storage.Driver)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.version", "1.0.0")
	v.SetDefault("server.base_path", "")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("storage.driver", StorageDriverMongoDB)

	// MongoDB defaults
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "outreach")
	v.SetDefault("mongodb.campaign_collection", "campaigns")
	v.SetDefault("mongodb.max_pool_size", 100)
	v.SetDefault("mongodb.min_pool_size", 10)
	v.SetDefault("mongodb.max_retries", 5)
	v.SetDefault("mongodb.tls_ca_file", "")
	v.SetDefault("mongodb.operation_timeout", 10*time.Second)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.campaign_ttl", 60*time.Second)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.producer_timeout", 5000)
	v.SetDefault("kafka.client_id", "campaign-manager")
	v.SetDefault("kafka.username", "")
	v.SetDefault("kafka.password", "")
	v.SetDefault("kafka.ssl", false)
	v.SetDefault("kafka.sasl_mechanism", "plain")

	// Kafka topic defaults
	v.SetDefault("kafka.topics.campaign_events", "campaigns.lifecycle")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.max_tokens", 150)
	v.SetDefault("openai.timeout", 30*time.Second)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})
}
