package etl

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BartekS5/dataflow/pkg/logger"
	"github.com/BartekS5/dataflow/pkg/models"
)

// MongoLoader upserts accepted records into a collection, keyed on id.
type MongoLoader struct {
	Client     *mongo.Client
	Database   string
	Collection string
	Log        *logger.Logger
}

func NewMongoLoader(client *mongo.Client, database, collection string, log *logger.Logger) *MongoLoader {
	return &MongoLoader{
		Client:     client,
		Database:   database,
		Collection: collection,
		Log:        log,
	}
}

func (m *MongoLoader) Load(batch models.Batch, destination string) (int, error) {
	log := orDefault(m.Log)
	log.Infof("Loading data to %s (mongo %s.%s)...", destination, m.Database, m.Collection)

	if len(batch) == 0 {
		log.Infof("Successfully loaded 0 records to %s.", destination)
		return 0, nil
	}

	coll := m.Client.Database(m.Database).Collection(m.Collection)
	writes := make([]mongo.WriteModel, 0, len(batch))
	for _, rec := range batch {
		filter := bson.M{models.FieldID: rec[models.FieldID]}
		update := bson.M{"$set": bson.M(rec)}
		writes = append(writes, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return 0, fmt.Errorf("mongo bulk write to %s.%s: %w", m.Database, m.Collection, err)
	}
	log.Infof("Mongo BulkWrite: Match %d, Mod %d, Upsert %d", res.MatchedCount, res.ModifiedCount, res.UpsertedCount)

	log.Infof("Successfully loaded %d records to %s.", len(batch), destination)
	return len(batch), nil
}

// MongoExtractor reads raw records from a collection, ordered by id.
type MongoExtractor struct {
	Client     *mongo.Client
	Database   string
	Collection string
	Log        *logger.Logger
}

func NewMongoExtractor(client *mongo.Client, database, collection string, log *logger.Logger) *MongoExtractor {
	return &MongoExtractor{
		Client:     client,
		Database:   database,
		Collection: collection,
		Log:        log,
	}
}

func (m *MongoExtractor) Extract(source string) (models.Batch, error) {
	log := orDefault(m.Log)
	log.Infof("Extracting data from %s (mongo %s.%s)...", source, m.Database, m.Collection)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coll := m.Client.Database(m.Database).Collection(m.Collection)
	findOpts := options.Find().
		SetSort(bson.D{{Key: models.FieldID, Value: 1}}).
		SetProjection(bson.M{"_id": 0})

	cursor, err := coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		log.Errorf("Failed to extract data from %s: %v", source, err)
		return nil, &SourceError{Source: source, Err: err}
	}
	defer cursor.Close(ctx)

	batch := models.Batch{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			log.Errorf("Error decoding mongo doc: %v", err)
			continue
		}
		batch = append(batch, models.Record(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, &SourceError{Source: source, Err: err}
	}

	log.Infof("Successfully extracted %d records.", len(batch))
	return batch, nil
}

// SetLogger swaps the logger and returns the previous one.
func (m *MongoLoader) SetLogger(next *logger.Logger) *logger.Logger {
	prev := m.Log
	m.Log = next
	return prev
}

// SetLogger swaps the logger and returns the previous one.
func (m *MongoExtractor) SetLogger(next *logger.Logger) *logger.Logger {
	prev := m.Log
	m.Log = next
	return prev
}
