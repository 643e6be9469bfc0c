// Package clean is the field-level cleaning and merge engine. Every
// operation mutates collections in the document store through a narrow
// Store interface; operations run strictly in sequence and are not safe
// to run concurrently against the same collection.
package clean

import "context"

// Store is the slice of the document-store adapter the cleaning engine
// needs: conditional unset, unconditional unset, a two-field projection
// scan, and the combined set+unset update used by merges.
type Store interface {
	UnsetWhereIn(ctx context.Context, collection, field string, values []string) error
	UnsetAll(ctx context.Context, collection, field string) error
	FieldPairs(ctx context.Context, collection, keyField, valueField string) (map[any]any, error)
	SetAndUnset(ctx context.Context, collection, matchField string, matchValue any, setField string, setValue any, unsetField string) error
}

// DefaultEmptyValues is the sentinel set treated as "no data" when
// DropEmpty is called without an explicit set.
var DefaultEmptyValues = []string{"NULL"}

// CollectionField pairs a collection with one of its fields.
type CollectionField struct {
	Collection string
	Field      string
}

// DropEmpty unsets each (collection, field) pair's field on every
// document whose value is in emptyValues (default: ["NULL"]). Documents
// with other values, and documents without the field, are untouched;
// a missing collection or field simply matches nothing.
func DropEmpty(ctx context.Context, st Store, pairs []CollectionField, emptyValues []string) error {
	if len(emptyValues) == 0 {
		emptyValues = DefaultEmptyValues
	}
	for _, p := range pairs {
		if err := st.UnsetWhereIn(ctx, p.Collection, p.Field, emptyValues); err != nil {
			return err
		}
	}
	return nil
}

// DropField unsets field on every document in collection. Idempotent.
func DropField(ctx context.Context, st Store, collection, field string) error {
	return st.UnsetAll(ctx, collection, field)
}

// Target names the collection receiving a merge and the field that
// bridges it to the source collection.
type Target struct {
	Collection  string
	BridgeField string
}

// Source names the collection a merge pulls from: the bridge field that
// matches target bridge values and the field whose values are merged in.
type Source struct {
	Collection  string
	BridgeField string
	SourceField string
}

// MergeCollection replaces the target's bridge field with the matching
// source field, a left-join-like update: a bridge mapping is built from
// one projection scan of the source (later duplicates overwrite earlier
// ones), then every target document matching a bridge value gets the
// source field set and the bridge field unset. Target documents whose
// bridge value has no mapping are silently skipped and keep their
// now-stale bridge field.
func MergeCollection(ctx context.Context, st Store, target Target, source Source) error {
	mappings, err := st.FieldPairs(ctx, source.Collection, source.BridgeField, source.SourceField)
	if err != nil {
		return err
	}
	for bridge, value := range mappings {
		err := st.SetAndUnset(ctx, target.Collection,
			target.BridgeField, bridge,
			source.SourceField, value,
			target.BridgeField,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// MergeSpec describes one source collection for MergeCollections.
type MergeSpec struct {
	SourceCollection  string
	TargetBridgeField string
	SourceBridgeField string
	SourceField       string
}

// MergeCollections applies MergeCollection for each spec in order
// against a fixed target collection.
func MergeCollections(ctx context.Context, st Store, targetCollection string, specs []MergeSpec) error {
	for _, spec := range specs {
		err := MergeCollection(ctx, st,
			Target{Collection: targetCollection, BridgeField: spec.TargetBridgeField},
			Source{Collection: spec.SourceCollection, BridgeField: spec.SourceBridgeField, SourceField: spec.SourceField},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
