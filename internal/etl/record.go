package etl

// ── Record ─────────────────────────────────────────────────
// Common intermediate data format.
// All sources emit Records, the store adapter consumes Records.

// Record is a single row of data flowing through the pipeline.
type Record struct {
	Data map[string]any `json:"data"`
}

// ── Table ──────────────────────────────────────────────────
// An ordered batch of records sharing a column set: the common currency
// between source connectors, the store adapter, and the transforms.
// Transforms treat tables as immutable and return fresh copies.

// Table holds rows in order together with the column order they share.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// HasColumn reports whether the table already tracks the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// clone deep-copies the table so transforms never alias the input's rows.
func (t *Table) clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		data := make(map[string]any, len(r.Data))
		for k, v := range r.Data {
			data[k] = v
		}
		out.Rows[i] = Record{Data: data}
	}
	return out
}
