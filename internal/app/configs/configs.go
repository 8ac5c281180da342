// Package configs parses the settings shared by the delivering and requesting services.
package configs

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilya-burinskiy/clipgate/internal/app/bus"
)

// Bus kinds
const (
	BusMemory   = "memory"
	BusPubSub   = "pubsub"
	BusNATS     = "nats"
	BusRabbitMQ = "rabbitmq"
	BusKafka    = "kafka"
)

const (
	defaultCollection     = "data"
	defaultBaseHost       = "example.com"
	defaultPort           = "8080"
	defaultRequestTimeout = 10 * time.Second
	defaultLogLevel       = "info"
)

// ErrTopicRequired is returned by ValidateBus when a broker is configured without a topic
var ErrTopicRequired = errors.New("topic is required when a message bus is configured")

// Duration is a time.Duration read from JSON as "10s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v

	return nil
}

// Application configs
type Config struct {
	Collection      string   `json:"collection,omitempty"`
	BaseHost        string   `json:"base_host,omitempty"`
	Port            string   `json:"port,omitempty"`
	ProjectID       string   `json:"project_id,omitempty"`
	Topic           string   `json:"topic,omitempty"`
	RequestTimeout  Duration `json:"request_timeout,omitempty"`
	DatabaseDSN     string   `json:"database_dsn,omitempty"`
	FileStoragePath string   `json:"file_storage_path,omitempty"`
	NATSURL         string   `json:"nats_url,omitempty"`
	NATSStream      string   `json:"nats_stream,omitempty"`
	AMQPURL         string   `json:"amqp_url,omitempty"`
	KafkaBrokers    string   `json:"kafka_brokers,omitempty"`
	LogLevel        string   `json:"log_level,omitempty"`
	EnableHTTPS     bool     `json:"enable_https"`
}

// Parse configs. Defaults are overridden by the JSON config file, then by
// flags, then by environment variables
func Parse(name string, args []string) (Config, error) {
	var (
		flagCollection      string
		flagBaseHost        string
		flagPort            string
		flagProjectID       string
		flagTopic           string
		flagRequestTimeout  time.Duration
		flagDatabaseDSN     string
		flagFileStoragePath string
		flagNATSURL         string
		flagNATSStream      string
		flagAMQPURL         string
		flagKafkaBrokers    string
		flagLogLevel        string
		flagEnableHTTPS     bool
		configFilePath      string
	)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&flagCollection, "collection", "", "store namespace")
	fs.StringVar(&flagBaseHost, "base-host", "", "host of redirect targets")
	fs.StringVar(&flagPort, "port", "", "port to listen on")
	fs.StringVar(&flagProjectID, "project", "", "cloud project ID")
	fs.StringVar(&flagTopic, "topic", "", "topic processing requests are published to")
	fs.DurationVar(&flagRequestTimeout, "timeout", 0, "store and publish timeout")
	fs.StringVar(&flagDatabaseDSN, "d", "", "database URL")
	fs.StringVar(&flagFileStoragePath, "f", "", "file storage path")
	fs.StringVar(&flagNATSURL, "nats", "", "NATS server URL")
	fs.StringVar(&flagNATSStream, "nats-stream", "", "JetStream stream to create for the topic")
	fs.StringVar(&flagAMQPURL, "amqp", "", "RabbitMQ URL")
	fs.StringVar(&flagKafkaBrokers, "kafka", "", "comma separated Kafka brokers")
	fs.StringVar(&flagLogLevel, "log-level", "", "log level")
	fs.BoolVar(&flagEnableHTTPS, "s", false, "enable HTTPS")
	fs.StringVar(&configFilePath, "c", "", "file path with json application configs")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if envConfigFilePath := os.Getenv("CONFIG"); envConfigFilePath != "" {
		configFilePath = envConfigFilePath
	}

	config := Config{
		Collection:     defaultCollection,
		BaseHost:       defaultBaseHost,
		Port:           defaultPort,
		RequestTimeout: Duration{defaultRequestTimeout},
		LogLevel:       defaultLogLevel,
	}
	if configFilePath != "" {
		configData, err := os.ReadFile(configFilePath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read configs: %w", err)
		}
		if err = json.Unmarshal(configData, &config); err != nil {
			return Config{}, fmt.Errorf("failed to parse configs: %w", err)
		}
	}

	override(&config.Collection, flagCollection)
	override(&config.BaseHost, flagBaseHost)
	override(&config.Port, flagPort)
	override(&config.ProjectID, flagProjectID)
	override(&config.Topic, flagTopic)
	override(&config.DatabaseDSN, flagDatabaseDSN)
	override(&config.FileStoragePath, flagFileStoragePath)
	override(&config.NATSURL, flagNATSURL)
	override(&config.NATSStream, flagNATSStream)
	override(&config.AMQPURL, flagAMQPURL)
	override(&config.KafkaBrokers, flagKafkaBrokers)
	override(&config.LogLevel, flagLogLevel)
	if flagRequestTimeout > 0 {
		config.RequestTimeout.Duration = flagRequestTimeout
	}

	override(&config.Collection, os.Getenv("COLLECTION"))
	override(&config.BaseHost, os.Getenv("BASE_HOST"))
	override(&config.Port, os.Getenv("PORT"))
	override(&config.ProjectID, os.Getenv("GOOGLE_CLOUD_PROJECT"))
	override(&config.ProjectID, os.Getenv("PROJECT_ID"))
	override(&config.Topic, os.Getenv("TOPIC"))
	override(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	override(&config.FileStoragePath, os.Getenv("FILE_STORAGE_PATH"))
	override(&config.NATSURL, os.Getenv("NATS_URL"))
	override(&config.NATSStream, os.Getenv("NATS_STREAM"))
	override(&config.AMQPURL, os.Getenv("AMQP_URL"))
	override(&config.KafkaBrokers, os.Getenv("KAFKA_BROKERS"))
	override(&config.LogLevel, os.Getenv("LOG_LEVEL"))
	if envRequestTimeout := os.Getenv("REQUEST_TIMEOUT"); envRequestTimeout != "" {
		timeout, err := time.ParseDuration(envRequestTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		config.RequestTimeout.Duration = timeout
	}

	envEnableHTTPS, err := strconv.ParseBool(os.Getenv("ENABLE_HTTPS"))
	if err == nil {
		config.EnableHTTPS = config.EnableHTTPS || flagEnableHTTPS || envEnableHTTPS
	} else {
		config.EnableHTTPS = config.EnableHTTPS || flagEnableHTTPS
	}

	return config, nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// Address to listen on
func (c Config) ListenAddr() string {
	return ":" + c.Port
}

// Use database storage
func (c Config) UseDBStorage() bool {
	return c.DatabaseDSN != ""
}

// Use file storage
func (c Config) UseFileStorage() bool {
	return !c.UseDBStorage() && c.FileStoragePath != ""
}

// Use firestore storage
func (c Config) UseFirestore() bool {
	return !c.UseDBStorage() && !c.UseFileStorage() && c.ProjectID != ""
}

// Use HTTPS
func (c Config) UseHTTPS() bool {
	return c.EnableHTTPS
}

// BusKind picks the bus from the configured endpoints
func (c Config) BusKind() string {
	switch {
	case c.NATSURL != "":
		return BusNATS
	case c.AMQPURL != "":
		return BusRabbitMQ
	case c.KafkaBrokers != "":
		return BusKafka
	case c.ProjectID != "":
		return BusPubSub
	default:
		return BusMemory
	}
}

// ValidateBus checks the settings the requesting service publishes with
func (c Config) ValidateBus() error {
	if c.BusKind() != BusMemory && c.Topic == "" {
		return fmt.Errorf("%w: bus %s", ErrTopicRequired, c.BusKind())
	}

	return nil
}

// Brokers splits KafkaBrokers
func (c Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return brokers
}

// TopicName of processing requests
func (c Config) TopicName() bus.Topic {
	return bus.Topic{Project: c.ProjectID, Name: c.Topic}
}
