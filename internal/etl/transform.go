package etl

import (
	"fmt"
	"strings"
)

// ── Transforms ─────────────────────────────────────────────
// In-memory table transforms applied between a store read and an
// overwrite write-back. All of them are functional: they return a new
// table and leave the input untouched. Values that are not strings
// pass through the string transforms unchanged.

// TrimWhitespace strips leading/trailing whitespace from every string
// value in field.
func TrimWhitespace(t *Table, field string) *Table {
	out := t.clone()
	for _, row := range out.Rows {
		if s, ok := row.Data[field].(string); ok {
			row.Data[field] = strings.TrimSpace(s)
		}
	}
	return out
}

// TrimPrefix removes, from each row's field value, the leading substring
// exactly matching that row's prefixField value. Rows where the prefix
// does not match are left as-is.
func TrimPrefix(t *Table, field, prefixField string, postTrim bool) *Table {
	out := t.clone()
	for _, row := range out.Rows {
		s, ok := row.Data[field].(string)
		if !ok {
			continue
		}
		prefix, ok := row.Data[prefixField].(string)
		if !ok || prefix == "" {
			continue
		}
		row.Data[field] = strings.TrimPrefix(s, prefix)
	}
	if postTrim {
		out = TrimWhitespace(out, field)
	}
	return out
}

// ReplaceWithSuffix splits each row's field value on the last occurrence
// of delimiter: the part before it (rejoined) replaces field, the final
// segment is written into suffixField as a string. When the delimiter is
// absent the whole value becomes the suffix and field becomes empty.
// The suffix column holds strings only: rows skipped because field is
// not a string still get any existing suffixField value stringified.
func ReplaceWithSuffix(t *Table, field, suffixField, delimiter string, postTrim bool) *Table {
	out := t.clone()
	if !out.HasColumn(suffixField) {
		out.Columns = append(out.Columns, suffixField)
	}
	for _, row := range out.Rows {
		s, ok := row.Data[field].(string)
		if !ok {
			if v, has := row.Data[suffixField]; has && v != nil {
				if _, isStr := v.(string); !isStr {
					row.Data[suffixField] = fmt.Sprint(v)
				}
			}
			continue
		}
		idx := strings.LastIndex(s, delimiter)
		if idx < 0 {
			row.Data[field] = ""
			row.Data[suffixField] = s
			continue
		}
		row.Data[field] = s[:idx]
		row.Data[suffixField] = s[idx+len(delimiter):]
	}
	if postTrim {
		out = TrimWhitespace(out, field)
		out = TrimWhitespace(out, suffixField)
	}
	return out
}

// AddID appends an integer column holding each row's zero-based position
// at the time of the call. The id reflects current row order only.
func AddID(t *Table, idName string) *Table {
	out := t.clone()
	if !out.HasColumn(idName) {
		out.Columns = append(out.Columns, idName)
	}
	for i, row := range out.Rows {
		row.Data[idName] = int64(i)
	}
	return out
}
