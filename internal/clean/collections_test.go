package clean_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"bikeetl/internal/clean"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory clean.Store: collections of loose documents,
// enough to exercise the engine without a running MongoDB.
type memStore struct {
	collections map[string][]map[string]any
}

func newMemStore() *memStore {
	return &memStore{collections: make(map[string][]map[string]any)}
}

func (m *memStore) add(collection string, docs ...map[string]any) {
	m.collections[collection] = append(m.collections[collection], docs...)
}

func (m *memStore) UnsetWhereIn(_ context.Context, collection, field string, values []string) error {
	for _, doc := range m.collections[collection] {
		v, ok := doc[field]
		if !ok {
			continue
		}
		for _, empty := range values {
			if v == empty {
				delete(doc, field)
				break
			}
		}
	}
	return nil
}

func (m *memStore) UnsetAll(_ context.Context, collection, field string) error {
	for _, doc := range m.collections[collection] {
		delete(doc, field)
	}
	return nil
}

func (m *memStore) FieldPairs(_ context.Context, collection, keyField, valueField string) (map[any]any, error) {
	pairs := make(map[any]any)
	for _, doc := range m.collections[collection] {
		key, ok := doc[keyField]
		if !ok {
			return nil, fmt.Errorf("document in %s missing field %q", collection, keyField)
		}
		pairs[key] = doc[valueField]
	}
	return pairs, nil
}

func (m *memStore) SetAndUnset(_ context.Context, collection, matchField string, matchValue any, setField string, setValue any, unsetField string) error {
	for _, doc := range m.collections[collection] {
		if v, ok := doc[matchField]; ok && reflect.DeepEqual(v, matchValue) {
			doc[setField] = setValue
			delete(doc, unsetField)
		}
	}
	return nil
}

func TestDropEmpty_DefaultSentinel(t *testing.T) {
	st := newMemStore()
	st.add("customers",
		map[string]any{"customer_id": 1, "phone": "NULL"},
		map[string]any{"customer_id": 2, "phone": "(828) 123-4567"},
		map[string]any{"customer_id": 3},
	)

	err := clean.DropEmpty(context.Background(), st,
		[]clean.CollectionField{{Collection: "customers", Field: "phone"}}, nil)
	require.NoError(t, err)

	docs := st.collections["customers"]
	_, has := docs[0]["phone"]
	require.False(t, has, "sentinel value should be unset")
	require.Equal(t, "(828) 123-4567", docs[1]["phone"], "real value must survive")
	_, has = docs[2]["phone"]
	require.False(t, has, "absent field stays absent")
}

func TestDropEmpty_CustomValues(t *testing.T) {
	st := newMemStore()
	st.add("orders",
		map[string]any{"order_id": 1, "shipped_date": "n/a"},
		map[string]any{"order_id": 2, "shipped_date": "NULL"},
	)

	err := clean.DropEmpty(context.Background(), st,
		[]clean.CollectionField{{Collection: "orders", Field: "shipped_date"}},
		[]string{"n/a"})
	require.NoError(t, err)

	docs := st.collections["orders"]
	_, has := docs[0]["shipped_date"]
	require.False(t, has)
	// "NULL" is not in the custom set, so it stays.
	require.Equal(t, "NULL", docs[1]["shipped_date"])
}

func TestDropEmpty_MissingCollection(t *testing.T) {
	st := newMemStore()
	err := clean.DropEmpty(context.Background(), st,
		[]clean.CollectionField{{Collection: "nope", Field: "phone"}}, nil)
	require.NoError(t, err)
}

func TestDropField_Idempotent(t *testing.T) {
	st := newMemStore()
	st.add("order_items",
		map[string]any{"order_id": 1, "item_id": 1},
		map[string]any{"order_id": 1, "item_id": 2},
	)

	require.NoError(t, clean.DropField(context.Background(), st, "order_items", "item_id"))
	for _, doc := range st.collections["order_items"] {
		_, has := doc["item_id"]
		require.False(t, has)
	}

	// Second run is a no-op.
	require.NoError(t, clean.DropField(context.Background(), st, "order_items", "item_id"))
}

func TestMergeCollection(t *testing.T) {
	st := newMemStore()
	st.add("brands",
		map[string]any{"brand_id": 1, "brand_name": "Electra"},
		map[string]any{"brand_id": 2, "brand_name": "Haro"},
	)
	st.add("products",
		map[string]any{"product_id": 10, "brand_id": 1},
		map[string]any{"product_id": 11, "brand_id": 2},
		map[string]any{"product_id": 12, "brand_id": 99},
	)

	err := clean.MergeCollection(context.Background(), st,
		clean.Target{Collection: "products", BridgeField: "brand_id"},
		clean.Source{Collection: "brands", BridgeField: "brand_id", SourceField: "brand_name"},
	)
	require.NoError(t, err)

	docs := st.collections["products"]
	require.Equal(t, "Electra", docs[0]["brand_name"])
	_, has := docs[0]["brand_id"]
	require.False(t, has, "bridge field should be unset after merge")
	require.Equal(t, "Haro", docs[1]["brand_name"])

	// No mapping for brand_id 99: silently skipped, stale bridge kept.
	_, has = docs[2]["brand_name"]
	require.False(t, has)
	require.Equal(t, 99, docs[2]["brand_id"])
}

func TestMergeCollection_LastDuplicateWins(t *testing.T) {
	st := newMemStore()
	st.add("brands",
		map[string]any{"brand_id": 1, "brand_name": "First"},
		map[string]any{"brand_id": 1, "brand_name": "Last"},
	)
	st.add("products", map[string]any{"product_id": 10, "brand_id": 1})

	err := clean.MergeCollection(context.Background(), st,
		clean.Target{Collection: "products", BridgeField: "brand_id"},
		clean.Source{Collection: "brands", BridgeField: "brand_id", SourceField: "brand_name"},
	)
	require.NoError(t, err)

	require.Equal(t, "Last", st.collections["products"][0]["brand_name"])
}

func TestMergeCollection_MissingBridgeFieldInSource(t *testing.T) {
	st := newMemStore()
	st.add("brands", map[string]any{"brand_name": "Electra"})
	st.add("products", map[string]any{"product_id": 10, "brand_id": 1})

	err := clean.MergeCollection(context.Background(), st,
		clean.Target{Collection: "products", BridgeField: "brand_id"},
		clean.Source{Collection: "brands", BridgeField: "brand_id", SourceField: "brand_name"},
	)
	require.ErrorContains(t, err, "missing field")
}

func TestMergeCollections(t *testing.T) {
	st := newMemStore()
	st.add("brands", map[string]any{"brand_id": 1, "brand_name": "Electra"})
	st.add("categories", map[string]any{"category_id": 3, "category_name": "Cruisers"})
	st.add("products", map[string]any{"product_id": 10, "brand_id": 1, "category_id": 3})

	err := clean.MergeCollections(context.Background(), st, "products", []clean.MergeSpec{
		{SourceCollection: "brands", TargetBridgeField: "brand_id", SourceBridgeField: "brand_id", SourceField: "brand_name"},
		{SourceCollection: "categories", TargetBridgeField: "category_id", SourceBridgeField: "category_id", SourceField: "category_name"},
	})
	require.NoError(t, err)

	doc := st.collections["products"][0]
	require.Equal(t, "Electra", doc["brand_name"])
	require.Equal(t, "Cruisers", doc["category_name"])
	_, hasBrand := doc["brand_id"]
	_, hasCategory := doc["category_id"]
	require.False(t, hasBrand)
	require.False(t, hasCategory)
}
