package mongodb

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config describes how to reach the campaign database
type Config struct {
	URI         string
	Database    string
	AppName     string
	MaxPoolSize uint64
	MinPoolSize uint64
	MaxRetries  int
	TLSCAFile   string // PEM bundle used instead of the system roots
}

// Client holds the driver client and the campaign database handle
type Client struct {
	Client *mongo.Client
	DB     *mongo.Database
	config Config
}

// NewClient connects and pings the primary, retrying with exponential backoff
// (1s, 2s, 4s, 8s, then 16s between attempts)
func NewClient(config Config) (*Client, error) {
	config, err := withDefaults(config)
	if err != nil {
		return nil, err
	}

	clientOpts, err := clientOptions(config)
	if err != nil {
		return nil, err
	}

	client, err := connectWithRetry(clientOpts, config.MaxRetries)
	if err != nil {
		return nil, err
	}

	log.Printf("Connected to MongoDB database %q", config.Database)

	return &Client{
		Client: client,
		DB:     client.Database(config.Database),
		config: config,
	}, nil
}

func clientOptions(config Config) (*options.ClientOptions, error) {
	opts := options.Client().
		ApplyURI(config.URI).
		SetAppName(config.AppName).
		SetMaxPoolSize(config.MaxPoolSize).
		SetMinPoolSize(config.MinPoolSize).
		SetMaxConnIdleTime(time.Minute).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	if config.TLSCAFile != "" {
		tlsConfig, err := loadTLSConfig(config.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS CA file: %w", err)
		}
		opts.SetTLSConfig(tlsConfig)
		log.Printf("MongoDB TLS enabled with CA file %s", config.TLSCAFile)
	}
	return opts, nil
}

func connectWithRetry(opts *options.ClientOptions, maxRetries int) (*mongo.Client, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDuration(attempt)
			log.Printf("MongoDB not reachable (attempt %d/%d): %v; retrying in %v", attempt, maxRetries, lastErr, wait)
			time.Sleep(wait)
		}

		client, err := tryConnect(opts)
		if err == nil {
			return client, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to connect to MongoDB after %d attempts: %w", maxRetries+1, lastErr)
}

func tryConnect(opts *options.ClientOptions) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// withDefaults fills unset pool and retry settings and validates the rest
func withDefaults(config Config) (Config, error) {
	if config.URI == "" {
		return config, fmt.Errorf("MongoDB URI cannot be empty")
	}
	if config.Database == "" {
		return config, fmt.Errorf("MongoDB database name cannot be empty")
	}

	if config.AppName == "" {
		config.AppName = "campaign-manager"
	}
	if config.MaxPoolSize == 0 {
		config.MaxPoolSize = 100
	}
	if config.MinPoolSize == 0 {
		config.MinPoolSize = 10
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 5
	}
	if config.MinPoolSize > config.MaxPoolSize {
		return config, fmt.Errorf("MinPoolSize (%d) cannot be greater than MaxPoolSize (%d)", config.MinPoolSize, config.MaxPoolSize)
	}
	return config, nil
}

// backoffDuration is the wait before the given retry attempt, capped at 16s
func backoffDuration(attempt int) time.Duration {
	if attempt > 5 {
		attempt = 5
	}
	return time.Duration(1<<uint(attempt-1)) * time.Second
}

// Ping checks the primary is reachable; used by the health endpoint
func (c *Client) Ping(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("MongoDB client is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.Client.Ping(ctx, readpref.Primary())
}

// Collection returns a handle on a collection of the configured database
func (c *Client) Collection(name string) *mongo.Collection {
	return c.DB.Collection(name)
}

// Disconnect closes all pooled connections
func (c *Client) Disconnect(ctx context.Context) error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Disconnect(ctx)
}

func loadTLSConfig(caFile string) (*tls.Config, error) {
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", caFile)
	}

	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
