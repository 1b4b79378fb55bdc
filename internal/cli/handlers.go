package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BartekS5/dataflow/internal/config"
	"github.com/BartekS5/dataflow/internal/etl"
	"github.com/BartekS5/dataflow/pkg/database"
	"github.com/BartekS5/dataflow/pkg/logger"
)

// stack holds the connections opened for one run so they can be closed.
type stack struct {
	cfg     *config.Config
	log     *logger.Logger
	mongo   *mongo.Client
	closers []func()
}

func (s *stack) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func (s *stack) mongoClient() (*mongo.Client, error) {
	if s.mongo != nil {
		return s.mongo, nil
	}
	client, err := database.ConnectMongo(s.cfg.MongoConnString)
	if err != nil {
		return nil, err
	}
	s.mongo = client
	s.closers = append(s.closers, func() { _ = database.DisconnectMongo(client) })
	return client, nil
}

func (s *stack) extractor() (etl.Extractor, error) {
	switch s.cfg.Extractor {
	case config.ExtractorMongo:
		client, err := s.mongoClient()
		if err != nil {
			return nil, err
		}
		return etl.NewMongoExtractor(client, s.cfg.MongoDatabase, s.cfg.MongoRawCollection, s.log), nil
	default:
		return etl.NewFixtureExtractor(s.log), nil
	}
}

func (s *stack) loader() (etl.Loader, error) {
	switch s.cfg.Sink {
	case config.SinkMongo:
		client, err := s.mongoClient()
		if err != nil {
			return nil, err
		}
		return etl.NewMongoLoader(client, s.cfg.MongoDatabase, s.cfg.MongoCollection, s.log), nil

	case config.SinkSQL:
		db, err := database.ConnectSQL(s.cfg.SQLDriver, s.cfg.SQLConnString)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { db.Close() })
		loader := etl.NewSQLLoader(db, s.cfg.SQLDriver, s.cfg.SQLTable, s.log)
		if err := loader.EnsureTable(); err != nil {
			return nil, err
		}
		return loader, nil

	case config.SinkS3:
		client, err := etl.NewS3Client(context.Background(), etl.S3Options{
			Region:          s.cfg.S3Region,
			EndpointURL:     s.cfg.S3Endpoint,
			AccessKeyID:     s.cfg.S3AccessKeyID,
			SecretAccessKey: s.cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return etl.NewS3Loader(client, s.cfg.S3Bucket, s.cfg.S3Prefix, s.log), nil

	default:
		return etl.NewLogLoader(s.log), nil
	}
}

func newLogger(c *cobra.Command, cfg *config.Config) (*logger.Logger, error) {
	if cfg.LogFile != "" {
		return logger.NewFile(cfg.LogFile)
	}
	return logger.New(c.OutOrStdout()), nil
}

func runPipeline(c *cobra.Command, cfg *config.Config, dryRun bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	s := &stack{cfg: cfg, log: log}
	defer s.close()

	ext, err := s.extractor()
	if err != nil {
		return fmt.Errorf("failed to set up extractor %q: %w", cfg.Extractor, err)
	}
	var loader etl.Loader
	if !dryRun {
		loader, err = s.loader()
		if err != nil {
			return fmt.Errorf("failed to set up sink %q: %w", cfg.Sink, err)
		}
	}

	pipeline := etl.NewPipeline(ext, loader, log, dryRun)
	out := pipeline.Run(cfg.Source, cfg.Destination)
	if !out.Succeeded() {
		return fmt.Errorf("run %s failed during %s (%s): %s", out.RunID, out.FailedAt, out.Kind, out.Message())
	}
	return nil
}
