// Package addrsplit splits a free-text postal address into the three display
// lines of a letter: street or building, area or locality, and town.
package addrsplit

import (
	"regexp"
	"strings"

	"github.com/nicl-arrears/internal/debug"
)

// Lines is a segmented address: street, area and town. Unused lines are
// empty and every line is trimmed.
type Lines [3]string

// Slice returns the lines as a slice
func (l Lines) Slice() []string {
	return []string{l[0], l[1], l[2]}
}

// NonEmpty returns the lines that carry text, in order
func (l Lines) NonEmpty() []string {
	var out []string
	for _, s := range l {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsZero reports whether all three lines are empty
func (l Lines) IsZero() bool {
	return l == Lines{}
}

// strategy proposes candidate parts for an address, or nil when its pattern
// does not apply
type strategy struct {
	name string
	fn   func(g *Gazetteer, address string) []string
}

// strategies in precedence order. The word-count fallback always yields.
var strategies = []strategy{
	{"comma", splitOnCommas},
	{"care-of", splitOnCareOf},
	{"town-anchor", splitAroundTown},
	{"indicators", splitOnIndicators},
	{"town-scan", splitAtTownText},
	{"word-count", splitByWordCount},
}

// Segmenter splits addresses against a gazetteer
type Segmenter struct {
	gaz   *Gazetteer
	debug bool
}

// Option configures a Segmenter
type Option func(*Segmenter)

// WithGazetteer replaces the compiled-in gazetteer
func WithGazetteer(g *Gazetteer) Option {
	return func(s *Segmenter) {
		if g != nil {
			s.gaz = g
		}
	}
}

// WithDebug traces which strategy split each address
func WithDebug(enabled bool) Option {
	return func(s *Segmenter) {
		s.debug = enabled
	}
}

// New creates a segmenter, using the Mauritius gazetteer unless overridden
func New(opts ...Option) *Segmenter {
	s := &Segmenter{gaz: Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Gazetteer returns the lexicon the segmenter matches against
func (s *Segmenter) Gazetteer() *Gazetteer {
	return s.gaz
}

// Split segments raw into three lines. Blank input yields three empty lines.
func (s *Segmenter) Split(raw string) Lines {
	address := strings.TrimSpace(raw)
	if address == "" {
		return Lines{}
	}

	for _, st := range strategies {
		parts := st.fn(s.gaz, address)
		if !hasText(parts) {
			continue
		}
		lines := normalize(parts)
		debug.Tracef(s.debug, "addrsplit", "%q split by %s into %q", address, st.name, lines)
		return lines
	}
	return Lines{}
}

// SplitNullable is Split for values read from nullable columns
func (s *Segmenter) SplitNullable(raw *string) Lines {
	if raw == nil {
		return Lines{}
	}
	return s.Split(*raw)
}

// Split segments raw against the compiled-in gazetteer
func Split(raw string) Lines {
	return New().Split(raw)
}

// normalize reduces candidate parts to exactly three lines. A three-part
// result keeps its layout so the town stays on the last line; anything else
// loses its empty parts, then is padded or has its interior merged.
func normalize(parts []string) Lines {
	var lines Lines
	if len(parts) == 3 {
		for i, p := range parts {
			lines[i] = strings.TrimSpace(p)
		}
		return lines
	}

	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}

	if len(kept) > 3 {
		return Lines{kept[0], strings.Join(kept[1:len(kept)-1], " "), kept[len(kept)-1]}
	}
	copy(lines[:], kept)
	return lines
}

func hasText(parts []string) bool {
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

func join(words []string) string {
	return strings.Join(words, " ")
}

// splitOnCommas distributes comma-separated segments over the three lines,
// keeping a trailing town on the last line
func splitOnCommas(g *Gazetteer, address string) []string {
	if !strings.Contains(address, ",") {
		return nil
	}

	var segs []string
	for _, seg := range strings.Split(address, ",") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	if len(segs) < 2 {
		return nil
	}

	last := segs[len(segs)-1]
	townLast := g.containsTown(last)
	switch {
	case len(segs) == 2 && townLast:
		return []string{segs[0], "", last}
	case len(segs) == 2:
		return []string{segs[0], last, ""}
	case len(segs) == 3 && !townLast:
		return segs
	}
	return []string{segs[0], strings.Join(segs[1:len(segs)-1], " "), last}
}

var reCareOf = regexp.MustCompile(`(?i)(.*?)\s+(c/o|care of)\s+(.*)`)

// splitOnCareOf puts the text before a care-of marker on the first line and
// splits the care-of details from a trailing town
func splitOnCareOf(g *Gazetteer, address string) []string {
	m := reCareOf.FindStringSubmatch(address)
	if m == nil {
		return nil
	}
	before := strings.TrimSpace(m[1])
	coPart := strings.TrimSpace(m[2] + " " + m[3])

	if idx := g.townOffset(coPart, true); idx >= 0 {
		return []string{before, strings.TrimSpace(coPart[:idx]), strings.TrimSpace(coPart[idx:])}
	}

	words := strings.Fields(coPart)
	if len(words) > 6 {
		mid := len(words) / 2
		return []string{before, join(words[:mid]), join(words[mid:])}
	}
	return []string{before, coPart, ""}
}

// splitAroundTown anchors on a whole-word town near the end of the address
// and looks for a street or area boundary in the words before it. Without a
// usable town it splits after the first street indicator.
func splitAroundTown(g *Gazetteer, address string) []string {
	words := strings.Fields(address)

	if t := g.townWordIndex(words, true); t > 0 {
		before, townWords := words[:t], words[t:]

		split := 0
		if i := firstIndicator(before, g.street); i >= 0 {
			split = i + 1
		}
		if split == 0 {
			if i := firstIndicator(before, g.area); i >= 0 {
				split = i
			}
		}
		if split == 0 && len(before) > 3 {
			split = len(before) / 2
		}

		if split > 0 && split < len(before) {
			return []string{join(before[:split]), join(before[split:]), join(townWords)}
		}
		return []string{join(before), "", join(townWords)}
	}

	i := firstIndicator(words, g.street)
	if i < 0 || i+1 >= len(words) {
		return nil
	}
	head, rest := words[:i+1], words[i+1:]
	if len(rest) > 3 {
		mid := len(rest) / 2
		return []string{join(head), join(rest[:mid]), join(rest[mid:])}
	}
	return []string{join(head), join(rest), ""}
}

// splitOnIndicators ends the street at the first street indicator and
// separates area from town in the remainder
func splitOnIndicators(g *Gazetteer, address string) []string {
	words := strings.Fields(address)
	i := firstIndicator(words, g.street)
	if i < 0 {
		return nil
	}

	street, rest := words[:i+1], words[i+1:]
	var area, townWords []string
	if len(rest) > 0 {
		if j := g.townWordIndex(rest, false); j >= 0 {
			area, townWords = rest[:j], rest[j:]
		} else {
			mid := len(rest) / 2
			area, townWords = rest[:mid], rest[mid:]
		}
	}

	var parts []string
	for _, p := range [][]string{street, area, townWords} {
		if len(p) > 0 {
			parts = append(parts, join(p))
		}
	}
	return parts
}

// splitAtTownText cuts the address where the first listed town appears
// anywhere, even inside a word
func splitAtTownText(g *Gazetteer, address string) []string {
	idx := g.townOffset(address, false)
	if idx < 0 {
		return nil
	}
	before := strings.TrimSpace(address[:idx])
	rest := strings.TrimSpace(address[idx:])

	var parts []string
	if before != "" {
		if bw := strings.Fields(before); len(bw) > 4 {
			mid := len(bw) / 2
			parts = append(parts, join(bw[:mid]), join(bw[mid:]))
		} else {
			parts = append(parts, before)
		}
	}
	return append(parts, rest)
}

// splitByWordCount groups words when nothing in the address is recognised
func splitByWordCount(_ *Gazetteer, address string) []string {
	w := strings.Fields(address)
	switch n := len(w); {
	case n <= 3:
		return w
	case n == 4:
		return []string{w[0], w[1], join(w[2:])}
	case n == 5:
		return []string{join(w[:2]), w[2], join(w[3:])}
	case n == 6:
		return []string{join(w[:2]), join(w[2:4]), join(w[4:])}
	default:
		third := n / 3
		return []string{join(w[:third+1]), join(w[third+1 : 2*third+1]), join(w[2*third+1:])}
	}
}
