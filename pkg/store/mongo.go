package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pferrors "github.com/pathforge/pathforge/pkg/errors"
)

// Mongo defaults.
const (
	DefaultDatabase   = "pathforge"
	DefaultCollection = "pathways"
	defaultMongoDial  = 5 * time.Second
)

// MongoConfig configures a MongoDB-backed store.
type MongoConfig struct {
	// URI is the connection string (mongodb://...). Required.
	URI string

	// Database name. Defaults to DefaultDatabase.
	Database string

	// Collection name. Defaults to DefaultCollection.
	Collection string

	// DialTimeout bounds the initial connect and ping.
	DialTimeout time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (c *MongoConfig) ValidateAndSetDefaults() error {
	if c.URI == "" {
		return pferrors.New(pferrors.ErrCodeInvalidInput, "mongo URI is required")
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultMongoDial
	}
	return nil
}

// MongoStore persists records in a MongoDB collection, keyed by record ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, pferrors.Wrap(pferrors.ErrCodeNetwork, err, "ping mongo")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves a record by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeNetwork, err, "get record %s", id)
	}
	return &rec, nil
}

// Put upserts a record by ID.
func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		return pferrors.New(pferrors.ErrCodeInvalidInput, "record has no id")
	}

	existing, err := s.Get(ctx, rec.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	stamp(rec, existing, time.Now())

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec,
		options.Replace().SetUpsert(true))
	if err != nil {
		return pferrors.Wrap(pferrors.ErrCodeNetwork, err, "put record %s", rec.ID)
	}
	return nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return pferrors.Wrap(pferrors.ErrCodeNetwork, err, "delete record %s", id)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all records, most recently updated first.
func (s *MongoStore) List(ctx context.Context) ([]*Record, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeNetwork, err, "list records")
	}
	var out []*Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeNetwork, err, "decode records")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var (
	_ Store = (*MongoStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
