//go:build libpostal

package postal

import (
	"strings"

	expand "github.com/openvenues/gopostal/expand"
	parser "github.com/openvenues/gopostal/parser"
)

// Available reports whether libpostal is linked in
func Available() bool { return true }

// Parse labels the components of raw with libpostal
func Parse(raw string) ([]Component, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed := parser.ParseAddress(raw)
	out := make([]Component, 0, len(parsed))
	for _, c := range parsed {
		out = append(out, Component{Label: c.Label, Value: c.Value})
	}
	return out, nil
}

// Expand returns libpostal's normalized spellings of raw
func Expand(raw string) ([]string, error) {
	opts := expand.GetDefaultExpansionOptions()
	opts.Languages = []string{"en", "fr"}
	return expand.ExpandAddressOptions(raw, opts), nil
}
