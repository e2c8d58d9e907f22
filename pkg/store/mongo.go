package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mosaicviz/mosaic/pkg/errors"
	"github.com/mosaicviz/mosaic/pkg/observability"
)

const chartCollection = "charts"

// MongoStore persists charts in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig holds connection options for the MongoDB backend.
type MongoConfig struct {
	URI      string
	Database string
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "failed to connect to MongoDB")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "failed to ping MongoDB")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(chartCollection),
	}, nil
}

// Put inserts or replaces a chart by ID.
func (s *MongoStore) Put(ctx context.Context, chart *Chart) error {
	start := time.Now()
	err := s.put(ctx, chart)
	observability.Store().OnStoreOp(ctx, "put", time.Since(start), err)
	return err
}

func (s *MongoStore) put(ctx context.Context, chart *Chart) error {
	if err := chart.Validate(); err != nil {
		return err
	}
	cp := *chart
	cp.UpdatedAt = time.Now().UTC()

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": cp.ID}, &cp, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "failed to store chart")
	}
	return nil
}

// Get retrieves a chart by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Chart, error) {
	start := time.Now()
	chart, err := s.get(ctx, id)
	observability.Store().OnStoreOp(ctx, "get", time.Since(start), err)
	return chart, err
}

func (s *MongoStore) get(ctx context.Context, id string) (*Chart, error) {
	var chart Chart
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&chart)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeChartNotFound, "chart not found: %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "failed to load chart")
	}
	return &chart, nil
}

// List returns all charts sorted by update time, newest first.
func (s *MongoStore) List(ctx context.Context) ([]*Chart, error) {
	start := time.Now()
	charts, err := s.list(ctx)
	observability.Store().OnStoreOp(ctx, "list", time.Since(start), err)
	return charts, err
}

func (s *MongoStore) list(ctx context.Context) ([]*Chart, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "failed to list charts")
	}
	defer cursor.Close(ctx)

	var charts []*Chart
	if err := cursor.All(ctx, &charts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "failed to decode charts")
	}
	return charts, nil
}

// Delete removes a chart by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.deleteOne(ctx, id)
	observability.Store().OnStoreOp(ctx, "delete", time.Since(start), err)
	return err
}

func (s *MongoStore) deleteOne(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "failed to delete chart")
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeChartNotFound, "chart not found: %s", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
