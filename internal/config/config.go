// Package config loads application settings from the environment
// (populated from the .env file in main.go).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BartekS5/dataflow/pkg/database"
)

// Sink names accepted by DATAFLOW_SINK and --sink.
const (
	SinkLog   = "log"
	SinkMongo = "mongo"
	SinkSQL   = "sql"
	SinkS3    = "s3"
)

// Extractor names accepted by DATAFLOW_EXTRACTOR and --extractor.
const (
	ExtractorFixture = "fixture"
	ExtractorMongo   = "mongo"
)

const (
	DefaultSource      = "api://example-source/data"
	DefaultDestination = "database://production/processed_data"
)

// Config holds all configuration for the application.
type Config struct {
	Source      string
	Destination string
	Extractor   string
	Sink        string
	LogFile     string

	SQLDriver     string
	SQLConnString string
	SQLTable      string

	MongoConnString    string
	MongoDatabase      string
	MongoCollection    string
	MongoRawCollection string

	S3Bucket          string
	S3Prefix          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// LoadConfig reads settings from environment variables, applying defaults.
// It does not validate; call Validate once flags have been applied.
func LoadConfig() *Config {
	return &Config{
		Source:      getEnv("DATAFLOW_SOURCE", DefaultSource),
		Destination: getEnv("DATAFLOW_DESTINATION", DefaultDestination),
		Extractor:   getEnv("DATAFLOW_EXTRACTOR", ExtractorFixture),
		Sink:        getEnv("DATAFLOW_SINK", SinkLog),
		LogFile:     os.Getenv("DATAFLOW_LOG_FILE"),

		SQLDriver:     getEnv("SQL_DRIVER", database.DriverSQLServer),
		SQLConnString: os.Getenv("SQL_CONNECTION_STRING"),
		SQLTable:      getEnv("SQL_TABLE", "processed_records"),

		MongoConnString:    os.Getenv("MONGO_CONNECTION_STRING"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "dataflow"),
		MongoCollection:    getEnv("MONGO_COLLECTION", "processed_records"),
		MongoRawCollection: getEnv("MONGO_RAW_COLLECTION", "raw_records"),

		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Prefix:          getEnv("S3_PREFIX", "processed"),
		S3Region:          os.Getenv("S3_REGION"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

// Validate checks that the selected extractor and sink have what they need.
// Source and destination are opaque and never checked.
func (c *Config) Validate() error {
	switch c.Extractor {
	case ExtractorFixture:
	case ExtractorMongo:
		if c.MongoConnString == "" {
			return errors.New("MONGO_CONNECTION_STRING environment variable not set")
		}
	default:
		return fmt.Errorf("unknown extractor %q", c.Extractor)
	}

	switch c.Sink {
	case SinkLog:
	case SinkMongo:
		if c.MongoConnString == "" {
			return errors.New("MONGO_CONNECTION_STRING environment variable not set")
		}
	case SinkSQL:
		if c.SQLConnString == "" {
			return errors.New("SQL_CONNECTION_STRING environment variable not set")
		}
		switch c.SQLDriver {
		case database.DriverSQLServer, database.DriverPostgres, database.DriverSQLite:
		default:
			return fmt.Errorf("unsupported SQL_DRIVER %q", c.SQLDriver)
		}
	case SinkS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET environment variable not set")
		}
	default:
		return fmt.Errorf("unknown sink %q", c.Sink)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
