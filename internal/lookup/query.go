package lookup

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Field is one named search input
type Field struct {
	Name  string
	Value string
}

// Query is the ordered set of search inputs for one submission
type Query struct {
	Fields []Field
}

// NewQuery builds a query for the given field names, reading values from
// vals. Values are trimmed; names missing from vals become blank fields.
func NewQuery(names []string, vals url.Values) Query {
	q := Query{Fields: make([]Field, 0, len(names))}
	for _, name := range names {
		q.Fields = append(q.Fields, Field{Name: name, Value: strings.TrimSpace(vals.Get(name))})
	}
	return q
}

// Get returns the value of the named field
func (q Query) Get(name string) string {
	for _, f := range q.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Blank reports whether every field is empty
func (q Query) Blank() bool {
	for _, f := range q.Fields {
		if strings.TrimSpace(f.Value) != "" {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the query as a name -> value object
func (q Query) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(q.Fields))
	for _, f := range q.Fields {
		m[f.Name] = f.Value
	}
	return json.Marshal(m)
}
