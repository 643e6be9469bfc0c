package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bikeetl/internal/etl"
)

// ── CSV File Source ─────────────────────────────────────────
// Reads a dataset from a local CSV file. Also serves as the fallback
// target for the API and SQL sources.

// CSVSource reads "<folder>/<dataset>.csv".
type CSVSource struct {
	Folder string
}

// NewCSVSource creates a CSV source rooted at folder. An empty folder
// means dataset names must carry the full path themselves.
func NewCSVSource(folder string) *CSVSource {
	return &CSVSource{Folder: folder}
}

func (s *CSVSource) Name() string { return "csv" }

// Fetch reads the named dataset. The name may carry a ".csv" extension;
// any other extension is rejected.
func (s *CSVSource) Fetch(ctx context.Context, dataset string) (*etl.Table, error) {
	ext := filepath.Ext(dataset)
	if ext != "" && ext != ".csv" {
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
	path := filepath.Join(s.Folder, strings.TrimSuffix(dataset, ext)+".csv")

	headers, rows, err := readCSVFile(path)
	if err != nil {
		return nil, err
	}

	table := &etl.Table{
		Columns: headers,
		Rows:    make([]etl.Record, 0, len(rows)),
	}
	for _, row := range rows {
		data := make(map[string]any, len(headers))
		for j, h := range headers {
			if j < len(row) {
				data[h] = inferCSVValue(row[j])
			}
		}
		table.Rows = append(table.Rows, etl.Record{Data: data})
	}
	return table, nil
}

func readCSVFile(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv file: %s", path)
	}

	return records[0], records[1:], nil
}

// inferCSVValue tries to parse a cell as a number or bool. Empty cells
// become nil; the "NULL" sentinel stays a string so the cleaning engine
// can unset it later.
func inferCSVValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	switch strings.ToLower(s) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}

	return s
}
