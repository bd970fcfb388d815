package formatter

import (
	"bytes"

	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/tidwall/pretty"
)

// Indent is the indentation unit of formatted output
const Indent = "  "

// prettyOptions keeps members in document order
var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   Indent,
	SortKeys: false,
}

// Formatter pretty-prints JSON text
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format returns text re-indented with two spaces per level. Text that does
// not parse is returned unchanged, so an edit in progress is never disturbed.
func (f *Formatter) Format(text string) string {
	root, err := parser.ParseString(text)
	if err != nil {
		return text
	}
	return f.FormatValue(root)
}

// FormatValue pretty-prints an already parsed value
func (f *Formatter) FormatValue(v models.Value) string {
	compact, err := v.MarshalJSON()
	if err != nil {
		return v.Literal()
	}
	out := pretty.PrettyOptions(compact, prettyOptions)
	return string(bytes.TrimRight(out, "\n"))
}

// Sample returns a fixed example document for demos and seeding an empty
// editor. The bytes are identical on every call.
func Sample() string {
	return sampleDocument
}

const sampleDocument = `{
  "id": "a1b2c3",
  "name": "Sample Store",
  "active": true,
  "rating": 4.7,
  "founded": 2019,
  "closedOn": null,
  "address": {
    "street": "221B Baker Street",
    "city": "London",
    "postcode": "NW1 6XE",
    "coordinates": {
      "lat": 51.5237,
      "lng": -0.1585
    }
  },
  "tags": [
    "books",
    "coffee",
    "vinyl"
  ],
  "staff": [
    {
      "id": 1,
      "name": "Ada",
      "role": "manager",
      "email": "ada@example.com",
      "fullTime": true
    },
    {
      "id": 2,
      "name": "Grace",
      "role": "barista",
      "email": "grace@example.com",
      "fullTime": false
    }
  ],
  "inventory": {
    "books": 1200,
    "records": 340,
    "discontinued": []
  },
  "settings": {}
}`
