package etl_test

import (
	"testing"

	"bikeetl/internal/etl"
)

func tableOf(columns []string, rows ...map[string]any) *etl.Table {
	t := &etl.Table{Columns: columns}
	for _, r := range rows {
		t.Rows = append(t.Rows, etl.Record{Data: r})
	}
	return t
}

func TestTrimWhitespace(t *testing.T) {
	in := tableOf([]string{"name", "qty"},
		map[string]any{"name": " abc ", "qty": 3},
		map[string]any{"name": "def", "qty": 4},
	)

	out := etl.TrimWhitespace(in, "name")

	if got := out.Rows[0].Data["name"]; got != "abc" {
		t.Fatalf("expected %q, got %q", "abc", got)
	}
	if got := out.Rows[1].Data["name"]; got != "def" {
		t.Fatalf("untrimmed value changed: %q", got)
	}
	// Non-string values pass through untouched.
	if got := out.Rows[0].Data["qty"]; got != 3 {
		t.Fatalf("non-string value changed: %v", got)
	}
	// The input table is never mutated.
	if got := in.Rows[0].Data["name"]; got != " abc " {
		t.Fatalf("input mutated: %q", got)
	}
}

func TestTrimPrefix(t *testing.T) {
	in := tableOf([]string{"product_name", "brand_name"},
		map[string]any{"product_name": "BrandX Bike 100", "brand_name": "BrandX"},
		map[string]any{"product_name": "Other Bike", "brand_name": "BrandX"},
	)

	out := etl.TrimPrefix(in, "product_name", "brand_name", true)

	if got := out.Rows[0].Data["product_name"]; got != "Bike 100" {
		t.Fatalf("expected %q, got %q", "Bike 100", got)
	}
	// Not a prefix: no-op.
	if got := out.Rows[1].Data["product_name"]; got != "Other Bike" {
		t.Fatalf("non-matching row changed: %q", got)
	}
}

func TestTrimPrefix_NoPostTrim(t *testing.T) {
	in := tableOf([]string{"product_name", "brand_name"},
		map[string]any{"product_name": "BrandX Bike 100", "brand_name": "BrandX"},
	)

	out := etl.TrimPrefix(in, "product_name", "brand_name", false)

	if got := out.Rows[0].Data["product_name"]; got != " Bike 100" {
		t.Fatalf("expected leading space preserved, got %q", got)
	}
}

func TestReplaceWithSuffix(t *testing.T) {
	in := tableOf([]string{"product_name"},
		map[string]any{"product_name": "Bike-2015"},
		map[string]any{"product_name": "Bike-2015-2016"},
	)

	out := etl.ReplaceWithSuffix(in, "product_name", "model_year", "-", true)

	if got := out.Rows[0].Data["product_name"]; got != "Bike" {
		t.Fatalf("expected %q, got %q", "Bike", got)
	}
	if got := out.Rows[0].Data["model_year"]; got != "2015" {
		t.Fatalf("expected suffix %q, got %q", "2015", got)
	}
	// Split happens on the LAST delimiter only.
	if got := out.Rows[1].Data["product_name"]; got != "Bike-2015" {
		t.Fatalf("expected %q, got %q", "Bike-2015", got)
	}
	if got := out.Rows[1].Data["model_year"]; got != "2016" {
		t.Fatalf("expected suffix %q, got %q", "2016", got)
	}
	if !out.HasColumn("model_year") {
		t.Fatal("suffix column not tracked")
	}
}

func TestReplaceWithSuffix_NoDelimiter(t *testing.T) {
	// Without a delimiter the whole value becomes the suffix and the
	// field goes empty.
	in := tableOf([]string{"product_name"},
		map[string]any{"product_name": "Bike"},
	)

	out := etl.ReplaceWithSuffix(in, "product_name", "model_year", "-", true)

	if got := out.Rows[0].Data["product_name"]; got != "" {
		t.Fatalf("expected empty field, got %q", got)
	}
	if got := out.Rows[0].Data["model_year"]; got != "Bike" {
		t.Fatalf("expected suffix %q, got %q", "Bike", got)
	}
}

func TestReplaceWithSuffix_PostTrim(t *testing.T) {
	in := tableOf([]string{"product_name"},
		map[string]any{"product_name": "Townie Original 21D - 2016"},
	)

	out := etl.ReplaceWithSuffix(in, "product_name", "model_year", "-", true)

	if got := out.Rows[0].Data["product_name"]; got != "Townie Original 21D" {
		t.Fatalf("expected trimmed field, got %q", got)
	}
	if got := out.Rows[0].Data["model_year"]; got != "2016" {
		t.Fatalf("expected trimmed suffix, got %q", got)
	}
}

func TestReplaceWithSuffix_StringifiesSuffixOnSkippedRows(t *testing.T) {
	// Rows whose field is not a string are skipped by the split, but the
	// suffix column stays all-strings: existing values get stringified.
	in := tableOf([]string{"product_name", "model_year"},
		map[string]any{"product_name": "Bike-2015", "model_year": nil},
		map[string]any{"product_name": nil, "model_year": float64(2016)},
		map[string]any{"product_name": 42, "model_year": nil},
	)

	out := etl.ReplaceWithSuffix(in, "product_name", "model_year", "-", true)

	if got := out.Rows[0].Data["model_year"]; got != "2015" {
		t.Fatalf("expected suffix %q, got %v", "2015", got)
	}
	if got := out.Rows[1].Data["model_year"]; got != "2016" {
		t.Fatalf("expected stringified %q, got %v (%T)", "2016", got, got)
	}
	// A nil suffix value stays nil, same as a null surviving a cast.
	if got := out.Rows[2].Data["model_year"]; got != nil {
		t.Fatalf("expected nil suffix, got %v", got)
	}
}

func TestAddID(t *testing.T) {
	in := tableOf([]string{"name"},
		map[string]any{"name": "a"},
		map[string]any{"name": "b"},
		map[string]any{"name": "c"},
	)

	out := etl.AddID(in, "row_id")

	for i, row := range out.Rows {
		if got := row.Data["row_id"]; got != int64(i) {
			t.Fatalf("row %d: expected id %d, got %v", i, i, got)
		}
	}
	if !out.HasColumn("row_id") {
		t.Fatal("id column not tracked")
	}
	if in.HasColumn("row_id") {
		t.Fatal("input table mutated")
	}
}

func TestAddID_OverwritesExistingColumn(t *testing.T) {
	in := tableOf([]string{"name", "item_id"},
		map[string]any{"name": "a", "item_id": 7},
		map[string]any{"name": "b", "item_id": 7},
	)

	out := etl.AddID(in, "item_id")

	if got := out.Rows[1].Data["item_id"]; got != int64(1) {
		t.Fatalf("expected reassigned id 1, got %v", got)
	}
	if n := len(out.Columns); n != 2 {
		t.Fatalf("column duplicated: %v", out.Columns)
	}
}
