// Package postal compares the segmenter with libpostal's statistical parser.
// libpostal is linked only when built with the libpostal tag.
package postal

import (
	"errors"
	"strings"

	"github.com/nicl-arrears/internal/addrsplit"
)

// ErrUnavailable is returned when the binary was built without libpostal
var ErrUnavailable = errors.New("libpostal support not compiled in (build with -tags libpostal)")

// Component is one labelled span of a parsed address
type Component struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// lineOf maps libpostal labels onto the three address lines. Labels not
// listed land on the middle line.
var lineOf = map[string]int{
	"house":          0,
	"po_box":         0,
	"unit":           0,
	"level":          0,
	"staircase":      0,
	"entrance":       0,
	"house_number":   0,
	"road":           0,
	"suburb":         1,
	"city_district":  1,
	"near":           1,
	"category":       1,
	"city":           2,
	"state_district": 2,
	"state":          2,
	"island":         2,
	"postcode":       2,
}

// Lines folds components into the segmenter's three-line shape. Country
// components are dropped since every address is in Mauritius.
func Lines(components []Component) addrsplit.Lines {
	var parts [3][]string
	for _, c := range components {
		v := strings.TrimSpace(c.Value)
		if v == "" || c.Label == "country" || c.Label == "country_region" || c.Label == "world_region" {
			continue
		}
		i, ok := lineOf[c.Label]
		if !ok {
			i = 1
		}
		parts[i] = append(parts[i], v)
	}

	var out addrsplit.Lines
	for i := range parts {
		out[i] = strings.Join(parts[i], " ")
	}
	return out
}
