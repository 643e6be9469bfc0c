package store

import (
	"bikeetl/internal/etl"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// toDocuments converts a table into insertable documents, preserving
// the table's column order inside each document. Columns missing from a
// row are written as nulls so every document carries the full column set.
func toDocuments(t *etl.Table) []any {
	docs := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		doc := make(bson.D, 0, len(t.Columns))
		for _, col := range t.Columns {
			doc = append(doc, bson.E{Key: col, Value: row.Data[col]})
		}
		// Keep fields outside the column set (e.g. _id from a prior read).
		for k, v := range row.Data {
			if !t.HasColumn(k) {
				doc = append(doc, bson.E{Key: k, Value: v})
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

// fromDocuments builds a table from decoded documents. Column order is
// _id first, then first appearance across the scan.
func fromDocuments(docs []bson.D) *etl.Table {
	table := &etl.Table{Rows: make([]etl.Record, 0, len(docs))}
	seen := make(map[string]bool)
	for _, doc := range docs {
		data := make(map[string]any, len(doc))
		for _, elem := range doc {
			data[elem.Key] = elem.Value
			if !seen[elem.Key] {
				seen[elem.Key] = true
				if elem.Key == "_id" {
					table.Columns = append([]string{"_id"}, table.Columns...)
				} else {
					table.Columns = append(table.Columns, elem.Key)
				}
			}
		}
		table.Rows = append(table.Rows, etl.Record{Data: data})
	}
	return table
}
