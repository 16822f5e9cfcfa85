package stickybucket

import (
	"context"
	"errors"
	"maps"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig is the configuration for the Mongo-backed store.
type MongoConfig struct {
	ConnectionURL  string        `env:"STICKY_BUCKET_MONGODB_URL,required"`                        // ConnectionURL is the URL of the database.
	Database       string        `env:"STICKY_BUCKET_MONGODB_DATABASE" envDefault:"flagkit"`       // Database holding the assignments collection.
	Collection     string        `env:"STICKY_BUCKET_MONGODB_COLLECTION" envDefault:"assignments"` // Collection name for assignment documents.
	ConnectTimeout time.Duration `env:"STICKY_BUCKET_MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`    // ConnectTimeout is the timeout for connecting to the database.
	RetryAttempts  int           `env:"STICKY_BUCKET_MONGODB_RETRY_ATTEMPTS" envDefault:"3"`       // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"STICKY_BUCKET_MONGODB_RETRY_INTERVAL" envDefault:"5s"`      // RetryInterval is the wait between attempts.
}

// MongoStore persists sticky-bucket assignments in a MongoDB collection,
// one document per identity, upserted by the composite key.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	ownsClient bool
}

// NewMongoStore connects to MongoDB using the provided configuration and
// returns a ready store. Connection attempts are retried per the config.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	for range cfg.RetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return &MongoStore{
					client:     client,
					collection: client.Database(cfg.Database).Collection(cfg.Collection),
					ownsClient: true,
				}, nil
			}
			_ = client.Disconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrStoreUnavailable, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrStoreUnavailable
}

// NewMongoStoreWithCollection wraps an existing collection, e.g. one owned
// by the host application's Mongo client.
func NewMongoStoreWithCollection(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

// Get loads the assignment document for an identity.
func (s *MongoStore) Get(ctx context.Context, attributeName, attributeValue string) (*AssignmentDoc, error) {
	filter := bson.M{"_id": Key(attributeName, attributeValue)}

	var doc AssignmentDoc
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &doc, nil
}

// Save upserts an assignment document, merging its assignments with any
// already stored for the same identity.
func (s *MongoStore) Save(ctx context.Context, doc *AssignmentDoc) error {
	if doc == nil || doc.AttributeName == "" {
		return ErrInvalidDoc
	}

	stored := *doc
	if existing, err := s.Get(ctx, doc.AttributeName, doc.AttributeValue); err == nil && existing != nil {
		merged := make(map[string]string, len(existing.Assignments)+len(doc.Assignments))
		maps.Copy(merged, existing.Assignments)
		maps.Copy(merged, doc.Assignments)
		stored.Assignments = merged
	}

	update := bson.M{"$set": bson.M{
		"attribute_name":  stored.AttributeName,
		"attribute_value": stored.AttributeValue,
		"assignments":     stored.Assignments,
	}}
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": stored.Key()},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Close disconnects the Mongo client when the store owns it.
func (s *MongoStore) Close() error {
	if !s.ownsClient || s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
