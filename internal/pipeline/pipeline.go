// Package pipeline wires the fixed BikeCorp run: extract the nine
// datasets from their sources, raw-load them into the store, then apply
// the cleaning sequence. The order is business wiring, hand-written on
// purpose — there is no generic job machinery here.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"bikeetl/internal/clean"
	"bikeetl/internal/etl"

	"github.com/google/uuid"
)

// Store is everything the pipeline needs from the document store: the
// bulk table operations plus the cleaning primitives.
type Store interface {
	clean.Store
	Write(ctx context.Context, t *etl.Table, collection string, overwrite bool) error
	Read(ctx context.Context, collection string) (*etl.Table, error)
	Drop(ctx context.Context, collections []string) error
}

// Dataset assignment per source, in load order.
var (
	csvDatasets = []string{"staffs", "stores"}
	apiDatasets = []string{"customers", "order_items", "orders"}
	sqlDatasets = []string{"brands", "categories", "products", "stocks"}
)

// Pipeline holds the collaborators for one run.
type Pipeline struct {
	Store Store
	CSV   etl.Source
	API   etl.Source
	SQL   etl.Source
}

// DatasetResult reports one raw load.
type DatasetResult struct {
	Dataset string `json:"dataset"`
	Source  string `json:"source"`
	Rows    int    `json:"rows"`
}

// Result is the outcome of a run.
type Result struct {
	ID        string          `json:"id"`
	StartedAt time.Time       `json:"startedAt"`
	Duration  time.Duration   `json:"duration"`
	Datasets  []DatasetResult `json:"datasets,omitempty"`
}

func newResult() *Result {
	return &Result{ID: uuid.New().String(), StartedAt: time.Now()}
}

// Extract pulls every dataset from its source and loads it into the
// store with overwrite semantics. Fallback recovery happens inside the
// sources; an error here means even the local copy failed, and the run
// aborts with the store left partially loaded.
func (p *Pipeline) Extract(ctx context.Context) (*Result, error) {
	result := newResult()
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	phases := []struct {
		source   etl.Source
		datasets []string
	}{
		{p.CSV, csvDatasets},
		{p.API, apiDatasets},
		{p.SQL, sqlDatasets},
	}

	for _, phase := range phases {
		for _, name := range phase.datasets {
			table, err := phase.source.Fetch(ctx, name)
			if err != nil {
				return result, fmt.Errorf("fetch %s from %s: %w", name, phase.source.Name(), err)
			}
			if err := p.Store.Write(ctx, table, name, true); err != nil {
				return result, fmt.Errorf("load %s: %w", name, err)
			}
			log.Printf("[PIPELINE] Loaded %s: %d rows (%s)", name, table.NumRows(), phase.source.Name())
			result.Datasets = append(result.Datasets, DatasetResult{
				Dataset: name,
				Source:  phase.source.Name(),
				Rows:    table.NumRows(),
			})
		}
	}

	return result, nil
}

// Clean applies the fixed cleaning sequence to the loaded collections.
// Every step mutates the store in place; a failure aborts mid-sequence
// with no rollback.
func (p *Pipeline) Clean(ctx context.Context) error {
	st := p.Store

	// 1. Placeholder "NULL" strings become absent fields.
	err := clean.DropEmpty(ctx, st, []clean.CollectionField{
		{Collection: "customers", Field: "phone"},
		{Collection: "staffs", Field: "phone"},
		{Collection: "orders", Field: "shipped_date"},
	}, nil)
	if err != nil {
		return fmt.Errorf("drop empty: %w", err)
	}
	log.Printf("[PIPELINE] Dropped empty sentinel values")

	// 2. Denormalize brand and category names into products, then drop
	// the lookup collections the merge consumed.
	err = clean.MergeCollections(ctx, st, "products", []clean.MergeSpec{
		{SourceCollection: "brands", TargetBridgeField: "brand_id", SourceBridgeField: "brand_id", SourceField: "brand_name"},
		{SourceCollection: "categories", TargetBridgeField: "category_id", SourceBridgeField: "category_id", SourceField: "category_name"},
	})
	if err != nil {
		return fmt.Errorf("merge products: %w", err)
	}
	if err := st.Drop(ctx, []string{"brands", "categories"}); err != nil {
		return fmt.Errorf("drop merged collections: %w", err)
	}
	log.Printf("[PIPELINE] Merged brands and categories into products")

	// 3. Product names carry the brand as a prefix and the model year as
	// a "- <year>" suffix; strip both into their own fields.
	products, err := st.Read(ctx, "products")
	if err != nil {
		return fmt.Errorf("read products: %w", err)
	}
	products = etl.TrimPrefix(products, "product_name", "brand_name", true)
	products = etl.ReplaceWithSuffix(products, "product_name", "model_year", "-", true)
	if err := st.Write(ctx, products, "products", true); err != nil {
		return fmt.Errorf("write products: %w", err)
	}
	log.Printf("[PIPELINE] Normalized product names: %d rows", products.NumRows())

	// 4. Replace per-order line numbers with global surrogate ids.
	if err := clean.DropField(ctx, st, "order_items", "item_id"); err != nil {
		return fmt.Errorf("drop item_id: %w", err)
	}
	orderItems, err := st.Read(ctx, "order_items")
	if err != nil {
		return fmt.Errorf("read order_items: %w", err)
	}
	orderItems = etl.AddID(orderItems, "item_id")
	if err := st.Write(ctx, orderItems, "order_items", true); err != nil {
		return fmt.Errorf("write order_items: %w", err)
	}

	// 5. Stocks have no key of their own; give them one.
	stocks, err := st.Read(ctx, "stocks")
	if err != nil {
		return fmt.Errorf("read stocks: %w", err)
	}
	stocks = etl.AddID(stocks, "stock_id")
	if err := st.Write(ctx, stocks, "stocks", true); err != nil {
		return fmt.Errorf("write stocks: %w", err)
	}
	log.Printf("[PIPELINE] Assigned surrogate ids to order_items and stocks")

	return nil
}

// Run executes extract then clean.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result, err := p.Extract(ctx)
	if err != nil {
		return result, err
	}
	if err := p.Clean(ctx); err != nil {
		result.Duration = time.Since(result.StartedAt)
		return result, err
	}
	result.Duration = time.Since(result.StartedAt)
	return result, nil
}
