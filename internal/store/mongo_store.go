package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoValueDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoListDoc struct {
	Key   string   `bson:"_id"`
	Items []string `bson:"items"`
}

// MongoStore keeps one document per value key and one document per list,
// whose items array grows with $push.
type MongoStore struct {
	client *mongo.Client
	values *mongo.Collection
	lists  *mongo.Collection
}

var _ KVStore = (*MongoStore)(nil)

func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{
		client: client,
		values: db.Collection("kv_values"),
		lists:  db.Collection("kv_lists"),
	}
}

func (m *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc mongoValueDoc
	err := m.values.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (m *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	doc := mongoValueDoc{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.values.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("mongo replace %s: %w", key, err)
	}
	return nil
}

func (m *MongoStore) Append(ctx context.Context, key string, value []byte) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.lists.UpdateOne(
		ctx,
		bson.M{"_id": key},
		bson.M{"$push": bson.M{"items": string(value)}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("mongo push %s: %w", key, err)
	}
	return nil
}

func (m *MongoStore) Range(ctx context.Context, key string) ([][]byte, error) {
	var doc mongoListDoc
	err := m.lists.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return [][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find list %s: %w", key, err)
	}
	out := make([][]byte, len(doc.Items))
	for i, item := range doc.Items {
		out[i] = []byte(item)
	}
	return out, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoStore) Backend() string {
	return "mongo"
}
