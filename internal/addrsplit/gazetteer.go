package addrsplit

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/mauritius.yaml
var mauritiusYAML []byte

// ErrNoTowns is returned when a lexicon document lists no towns
var ErrNoTowns = errors.New("gazetteer has no towns")

// Gazetteer holds the place names and indicator words used to segment
// addresses. It is read-only once built and safe for concurrent use.
type Gazetteer struct {
	towns  []town
	street []string
	area   []string
}

// town is a gazetteer entry with its lowercase forms precomputed
type town struct {
	name  string
	runes []rune
	words []string
}

type lexiconFile struct {
	Towns            []string `yaml:"towns"`
	StreetIndicators []string `yaml:"street_indicators"`
	AreaIndicators   []string `yaml:"area_indicators"`
}

var (
	defaultOnce sync.Once
	defaultGaz  *Gazetteer
)

// Default returns the compiled-in Mauritius gazetteer
func Default() *Gazetteer {
	defaultOnce.Do(func() {
		g, err := ParseGazetteer(mauritiusYAML)
		if err != nil {
			panic(fmt.Sprintf("addrsplit: embedded gazetteer: %v", err))
		}
		defaultGaz = g
	})
	return defaultGaz
}

// LoadGazetteer reads a YAML lexicon from disk
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gazetteer %s: %w", path, err)
	}
	g, err := ParseGazetteer(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gazetteer %s: %w", path, err)
	}
	return g, nil
}

// ParseGazetteer builds a gazetteer from a YAML document with the keys
// towns, street_indicators and area_indicators. Entry order is preserved.
func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var lf lexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	return NewGazetteer(lf.Towns, lf.StreetIndicators, lf.AreaIndicators)
}

// NewGazetteer builds a gazetteer from in-memory lists. Blank entries and
// repeated towns are skipped.
func NewGazetteer(towns, streetIndicators, areaIndicators []string) (*Gazetteer, error) {
	g := &Gazetteer{
		street: lowerAll(compact(streetIndicators)),
		area:   lowerAll(compact(areaIndicators)),
	}

	seen := make(map[string]bool)
	for _, name := range compact(towns) {
		lower := strings.ToLower(name)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		g.towns = append(g.towns, town{
			name:  name,
			runes: foldRunes(name),
			words: strings.Fields(lower),
		})
	}

	if len(g.towns) == 0 {
		return nil, ErrNoTowns
	}
	return g, nil
}

// Towns returns the town names in match order
func (g *Gazetteer) Towns() []string {
	names := make([]string, len(g.towns))
	for i, t := range g.towns {
		names[i] = t.name
	}
	return names
}

// StreetIndicators returns the lowercased street indicator fragments
func (g *Gazetteer) StreetIndicators() []string {
	return append([]string(nil), g.street...)
}

// AreaIndicators returns the lowercased area indicator fragments
func (g *Gazetteer) AreaIndicators() []string {
	return append([]string(nil), g.area...)
}

// containsTown reports whether any town occurs in s as a substring
func (g *Gazetteer) containsTown(s string) bool {
	hay := foldRunes(s)
	for _, t := range g.towns {
		if indexRunes(hay, t.runes, false) >= 0 {
			return true
		}
	}
	return false
}

// townOffset returns the byte offset in s of the first listed town that
// occurs in s, or -1. With last set the rightmost occurrence of that town
// is used.
func (g *Gazetteer) townOffset(s string, last bool) int {
	hay := foldRunes(s)
	for _, t := range g.towns {
		if i := indexRunes(hay, t.runes, last); i >= 0 {
			return byteOffset(s, i)
		}
	}
	return -1
}

// townWordIndex returns the index of the word where the first listed town
// whose words appear as a contiguous window in words begins, or -1.
// fromRight selects the latest window for that town instead of the earliest.
func (g *Gazetteer) townWordIndex(words []string, fromRight bool) int {
	lower := lowerAll(words)
	for _, t := range g.towns {
		n := len(t.words)
		if n > len(lower) {
			continue
		}
		phrase := strings.Join(t.words, " ")
		if fromRight {
			for i := len(lower) - n; i >= 0; i-- {
				if strings.Join(lower[i:i+n], " ") == phrase {
					return i
				}
			}
			continue
		}
		for i := 0; i+n <= len(lower); i++ {
			if strings.Join(lower[i:i+n], " ") == phrase {
				return i
			}
		}
	}
	return -1
}

// firstIndicator returns the index of the first word containing any of the
// lowercase indicator fragments, or -1
func firstIndicator(words, indicators []string) int {
	for i, w := range words {
		lw := strings.ToLower(w)
		for _, ind := range indicators {
			if strings.Contains(lw, ind) {
				return i
			}
		}
	}
	return -1
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
