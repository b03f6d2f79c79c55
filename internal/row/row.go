package row

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrInputFormat marks a source document that cannot be read as a table.
var ErrInputFormat = errors.New("format de tableau invalide")

// Row is one record of the input table. Header order is kept so the row can be
// dumped the way it appears in the sheet.
type Row struct {
	headers []string
	cells   map[string]string
}

func New(headers, values []string) Row {
	r := Row{cells: make(map[string]string, len(headers))}
	for i, h := range headers {
		if i >= len(values) {
			break
		}
		if _, dup := r.cells[h]; dup {
			continue
		}
		r.headers = append(r.headers, h)
		r.cells[h] = values[i]
	}
	return r
}

// FromMap builds a Row from an unordered mapping; headers are sorted.
func FromMap(m map[string]string) Row {
	headers := make([]string, 0, len(m))
	for k := range m {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = m[h]
	}
	return New(headers, values)
}

func (r Row) Headers() []string {
	return append([]string{}, r.headers...)
}

func (r Row) Get(key string) string {
	return r.cells[key]
}

func (r Row) Lookup(key string) (string, bool) {
	v, ok := r.cells[key]
	return v, ok
}

func (r Row) Len() int {
	return len(r.headers)
}

// JSON renders the row as a compact JSON object in header order.
func (r Row) JSON() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, h := range r.headers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(QuoteJSON(h))
		b.WriteByte(':')
		b.WriteString(QuoteJSON(r.cells[h]))
	}
	b.WriteByte('}')
	return b.String()
}

// QuoteJSON returns s as a JSON string literal without HTML escaping.
func QuoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// ParseTable reads a CSV document whose first record names the columns.
func ParseTable(raw []byte) ([]Row, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("document vide : %w", ErrInputFormat)
	}
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("lecture de l'en-tête impossible : %v : %w", err, ErrInputFormat)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	rows := make([]Row, 0, 16)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lecture du tableau impossible : %v : %w", err, ErrInputFormat)
		}
		if blankRecord(record) {
			continue
		}
		rows = append(rows, New(headers, record))
	}
	return rows, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
