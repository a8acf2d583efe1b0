package remote

import (
	"context"
	"encoding/json"
	"time"

	"go-boutique-store/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDocuments keeps every collection in one Mongo collection, one
// document per record.
type MongoDocuments struct {
	coll *mongo.Collection
}

type mongoRecord struct {
	Collection string `bson:"collection"`
	Key        string `bson:"key"`
	Seq        int64  `bson:"seq"`
	Value      string `bson:"value"`
}

func NewMongoDocuments(db *mongo.Database) *MongoDocuments {
	return &MongoDocuments{coll: db.Collection("documents")}
}

// EnsureIndexes creates the unique (collection, key) index.
func (m *MongoDocuments) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "collection", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m *MongoDocuments) Find(ctx context.Context, collection string) (store.Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.M{"collection": collection}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []mongoRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	snap := make(store.Snapshot, 0, len(recs))
	for _, r := range recs {
		snap = append(snap, store.Record{Key: r.Key, Value: json.RawMessage(r.Value)})
	}
	return snap, nil
}

func (m *MongoDocuments) Replace(ctx context.Context, collection string, snap store.Snapshot) error {
	if _, err := m.coll.DeleteMany(ctx, bson.M{"collection": collection}); err != nil {
		return err
	}
	if len(snap) == 0 {
		return nil
	}

	base := time.Now().UnixNano()
	docs := make([]interface{}, 0, len(snap))
	for i, r := range snap {
		docs = append(docs, mongoRecord{
			Collection: collection,
			Key:        r.Key,
			Seq:        base + int64(i),
			Value:      string(r.Value),
		})
	}
	_, err := m.coll.InsertMany(ctx, docs)
	return err
}

func (m *MongoDocuments) Insert(ctx context.Context, collection string, rec store.Record) error {
	_, err := m.coll.InsertOne(ctx, mongoRecord{
		Collection: collection,
		Key:        rec.Key,
		Seq:        time.Now().UnixNano(),
		Value:      string(rec.Value),
	})
	return err
}

func (m *MongoDocuments) Delete(ctx context.Context, collection, key string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"collection": collection, "key": key})
	return err
}
