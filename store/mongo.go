package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoStore is the opt-in shared backend for deployments where several
// server instances point at one database. Each logical collection maps to a
// Mongo collection holding {_id: slot key, value: raw JSON} documents.
//
// Change notification is still process-local: a write notifies this
// process's subscribers after it lands.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	mu     sync.Mutex
	subs   *notifier
}

type mongoRecord struct {
	ID    string `bson:"_id"`
	Value string `bson:"value"`
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
		subs:   newNotifier(),
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Mongo namespaces reject '/', which pair-channel paths contain.
func mongoName(collection string) string {
	return strings.ReplaceAll(collection, "/", ".")
}

func (s *MongoStore) ReadAll(ctx context.Context, collection string) (Snapshot, error) {
	cursor, err := s.db.Collection(mongoName(collection)).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var records []mongoRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	snap := make(Snapshot, len(records))
	for _, rec := range records {
		snap[rec.ID] = json.RawMessage(rec.Value)
	}
	return snap, nil
}

func (s *MongoStore) WriteAll(ctx context.Context, collection string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.db.Collection(mongoName(collection))
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(snap) > 0 {
		docs := make([]any, 0, len(snap))
		for key, value := range snap {
			docs = append(docs, mongoRecord{ID: key, Value: string(value)})
		}
		if _, err := col.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	s.subs.publish(collection, snap.Clone())
	return nil
}

func (s *MongoStore) Append(ctx context.Context, collection string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.db.Collection(mongoName(collection))
	if _, err := col.InsertOne(ctx, mongoRecord{ID: ulid.Make().String(), Value: string(raw)}); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	snap, err := s.ReadAll(ctx, collection)
	if err != nil {
		return err
	}
	s.subs.publish(collection, snap)
	return nil
}

func (s *MongoStore) Subscribe(collection string, fn func(Snapshot)) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.ReadAll(context.Background(), collection)
	if err != nil {
		return nil, err
	}
	return s.subs.subscribe(collection, fn, snap), nil
}
