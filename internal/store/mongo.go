// Package store adapts MongoDB to the pipeline: bulk table reads and
// writes plus the raw field-level update primitives the cleaning engine
// runs against whole collections.
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"bikeetl/internal/config"
	"bikeetl/internal/etl"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo is the document-store adapter. One Mongo is opened per run and
// closed when the run ends, regardless of outcome.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects and pings the configured deployment.
func Open(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Printf("[MONGO] Connected, database: %s", cfg.Database)
	return &Mongo{client: client, db: client.Database(cfg.Database)}, nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Write bulk-inserts a table into the named collection. With overwrite
// the existing collection is dropped first; otherwise rows append.
// Empty tables write nothing (but still drop under overwrite).
func (m *Mongo) Write(ctx context.Context, t *etl.Table, collection string, overwrite bool) error {
	coll := m.db.Collection(collection)
	if overwrite {
		if err := coll.Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", collection, err)
		}
	}
	if t.NumRows() == 0 {
		return nil
	}
	if _, err := coll.InsertMany(ctx, toDocuments(t)); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

// Read scans the whole collection back into a table. Documents decode
// as bson.D so field order survives into the column order.
func (m *Mongo) Read(ctx context.Context, collection string) (*etl.Table, error) {
	cursor, err := m.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.D
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return fromDocuments(docs), nil
}

// Drop removes the named collections. Dropping a missing collection is
// a no-op.
func (m *Mongo) Drop(ctx context.Context, collections []string) error {
	for _, name := range collections {
		if err := m.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

// Distinct lists the distinct values of a field in a collection.
func (m *Mongo) Distinct(ctx context.Context, collection, field string) ([]any, error) {
	var values []any
	res := m.db.Collection(collection).Distinct(ctx, field, bson.M{})
	if err := res.Decode(&values); err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", collection, field, err)
	}
	return values, nil
}

// ── Cleaning primitives ────────────────────────────────────
// The four raw operations the cleaning engine composes. All of them
// mutate collections in place without reading documents into memory
// (FieldPairs projects just the two fields it needs).

// UnsetWhereIn removes field from every document whose current value is
// in values. Absent fields and missing collections match nothing.
func (m *Mongo) UnsetWhereIn(ctx context.Context, collection, field string, values []string) error {
	_, err := m.db.Collection(collection).UpdateMany(ctx,
		bson.M{field: bson.M{"$in": values}},
		bson.M{"$unset": bson.M{field: ""}},
	)
	if err != nil {
		return fmt.Errorf("unset %s.%s: %w", collection, field, err)
	}
	return nil
}

// UnsetAll removes field from every document in the collection.
func (m *Mongo) UnsetAll(ctx context.Context, collection, field string) error {
	_, err := m.db.Collection(collection).UpdateMany(ctx,
		bson.M{},
		bson.M{"$unset": bson.M{field: ""}},
	)
	if err != nil {
		return fmt.Errorf("unset %s.%s: %w", collection, field, err)
	}
	return nil
}

// FieldPairs scans the collection projecting only keyField and
// valueField and returns the mapping keyField value → valueField value.
// Later documents overwrite earlier ones on duplicate keys. A scanned
// document without keyField aborts the scan.
func (m *Mongo) FieldPairs(ctx context.Context, collection, keyField, valueField string) (map[any]any, error) {
	opts := options.Find().SetProjection(bson.M{keyField: 1, valueField: 1, "_id": 0})
	cursor, err := m.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	pairs := make(map[any]any)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		key, ok := doc[keyField]
		if !ok {
			return nil, fmt.Errorf("document in %s missing field %q", collection, keyField)
		}
		pairs[key] = doc[valueField]
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return pairs, nil
}

// SetAndUnset updates every document whose matchField equals matchValue:
// setField is set to setValue and unsetField is removed, in one update.
func (m *Mongo) SetAndUnset(ctx context.Context, collection, matchField string, matchValue any, setField string, setValue any, unsetField string) error {
	_, err := m.db.Collection(collection).UpdateMany(ctx,
		bson.M{matchField: matchValue},
		bson.M{
			"$set":   bson.M{setField: setValue},
			"$unset": bson.M{unsetField: ""},
		},
	)
	if err != nil {
		return fmt.Errorf("merge update %s: %w", collection, err)
	}
	return nil
}
