package letters

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nicl-arrears/internal/addrsplit"
)

// AddressNotAvailable is printed when a row carries no address at all
const AddressNotAvailable = "Address not available"

// AddressLines picks the printed address of a row. The per-line fields win
// when any is filled; otherwise the free-text address is segmented.
func AddressLines(rec Record, seg *addrsplit.Segmenter) []string {
	if !HasAddressFields(rec) {
		if lines := seg.Split(rec.FullAddress).NonEmpty(); len(lines) > 0 {
			return lines
		}
		return []string{AddressNotAvailable}
	}

	var lines []string
	for _, field := range []string{rec.Addr1, rec.Addr2, rec.Addr3, rec.Addr4} {
		if !blank(field) {
			lines = append(lines, strings.TrimSpace(field))
		}
	}
	return lines
}

// AddressColumns lays a row's address on the three ADDRESS_n columns of a
// results file. A segmented address keeps its positional layout, so the town
// stays on the last column. Per-line fields fill from the left with any
// surplus middle lines folded together.
func AddressColumns(rec Record, seg *addrsplit.Segmenter) addrsplit.Lines {
	if !HasAddressFields(rec) {
		return seg.Split(rec.FullAddress)
	}
	address := AddressLines(rec, seg)
	if n := len(address); n > 3 {
		address = []string{address[0], strings.Join(address[1:n-1], ", "), address[n-1]}
	}
	var out addrsplit.Lines
	copy(out[:], address)
	return out
}

// Recipient builds the name block: the customer name followed by the address
// lines, all title-cased for display
func Recipient(name string, address []string) []string {
	caser := cases.Title(language.English)
	block := make([]string, 0, len(address)+1)
	block = append(block, caser.String(name))
	for _, line := range address {
		block = append(block, caser.String(line))
	}
	return block
}
