package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"

	"bikeetl/internal/config"
	"bikeetl/internal/etl"
)

// ── HTTP API Source ─────────────────────────────────────────
// Fetches a dataset from the upstream export API. Any failure — missing
// address, connection error, timeout, non-200 status, bad payload —
// logs and falls back to the local CSV copy; errors never propagate
// when the fallback can serve the dataset.

// APISource fetches "http://<address>[:<port>]/<dataset>".
type APISource struct {
	base     string
	client   *http.Client
	fallback *CSVSource
}

// NewAPISource creates an API source. The port is appended only when
// configured; an empty address disables remote fetching entirely.
func NewAPISource(cfg config.APIConfig, fallback *CSVSource) *APISource {
	base := ""
	if cfg.Address != "" {
		hostport := trimHostScheme(cfg.Address)
		if cfg.Port != "" {
			hostport += ":" + cfg.Port
		}
		base = "http://" + hostport
	}
	return &APISource{
		base:     base,
		client:   &http.Client{Timeout: cfg.Timeout},
		fallback: fallback,
	}
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Fetch(ctx context.Context, dataset string) (*etl.Table, error) {
	table, err := s.fetchRemote(ctx, dataset)
	if err != nil {
		log.Printf("[API] %v — will use local file instead", err)
		return s.fallback.Fetch(ctx, dataset)
	}
	return table, nil
}

func (s *APISource) fetchRemote(ctx context.Context, dataset string) (*etl.Table, error) {
	if s.base == "" {
		return nil, fmt.Errorf("no api address configured")
	}

	url := s.base + "/" + dataset
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response from %s: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return decodeJSONTable(body)
}

// decodeJSONTable parses an API payload into a table. The upstream API
// double-encodes: the body is a JSON string whose content is the actual
// JSON array. Plain arrays and single objects are accepted too.
func decodeJSONTable(body []byte) (*etl.Table, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if inner, ok := raw.(string); ok {
		if err := json.Unmarshal([]byte(inner), &raw); err != nil {
			return nil, fmt.Errorf("parse nested json: %w", err)
		}
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return nil, fmt.Errorf("unexpected payload shape: %T", raw)
	}

	table := &etl.Table{Rows: make([]etl.Record, 0, len(items))}
	seen := make(map[string]bool)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		data := make(map[string]any, len(m))
		for k, v := range m {
			data[k] = flattenJSONValue(v)
			if !seen[k] {
				seen[k] = true
				table.Columns = append(table.Columns, k)
			}
		}
		table.Rows = append(table.Rows, etl.Record{Data: data})
	}

	// JSON object keys carry no order; sort for a deterministic column set.
	sort.Strings(table.Columns)
	return table, nil
}

// flattenJSONValue keeps scalars as-is and serializes nested structures
// as JSON strings.
func flattenJSONValue(v any) any {
	switch v.(type) {
	case string, float64, bool, nil:
		return v
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// trimHostScheme strips an accidental scheme from a configured address
// so "http://host" and "host" behave the same.
func trimHostScheme(addr string) string {
	addr = strings.TrimPrefix(addr, "http://")
	return strings.TrimPrefix(addr, "https://")
}
