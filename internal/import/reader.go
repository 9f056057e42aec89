package import_pkg

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/nicl-arrears/internal/letters"
)

// ErrMissingColumns is returned when the header lacks a policy number or a
// policy holder column
var ErrMissingColumns = errors.New("header must contain a policy number and a policy holder column")

// Column headers of the arrears extract. Matching is case-insensitive.
const (
	ColPolicyNo     = "POL_NO"
	ColTitle        = "PH_TITLE"
	ColPolicyHolder = "POLICY_HOLDER"
	ColAddr1        = "POL_PH_ADDR1"
	ColAddr2        = "POL_PH_ADDR2"
	ColAddr4        = "POL_PH_ADDR4"
	ColFullAddress  = "FULL_ADDRESS"
	ColArrears      = "TRUEARREARS"
	ColCoverFrom    = "POL_FROM_DT"
	ColCoverTo      = "POL_TO_DT"
	ColEmail        = "PH_EMAIL"
	ColMobile       = "PH_MOBILE"
	ColNationalID   = "PAYOR_NATIONAL_ID"
	ColComments     = "COMMENTS"
)

// Layout names the headers a record field may be read from. Each field
// takes the first listed column holding a value; for Arrears, the first
// non-zero amount.
type Layout struct {
	Name         string
	PolicyNo     []string
	Title        []string
	PolicyHolder []string
	Product      []string
	Addr1        []string
	Addr2        []string
	Addr3        []string
	Addr4        []string
	FullAddress  []string
	Arrears      []string
	CoverFrom    []string
	CoverTo      []string
	Email        []string
	Mobile       []string
	NationalID   []string
	Comments     []string
}

// ArrearsLayout reads the L0 to MED arrears extract. Its POL_PH_ADDR3 column
// is never printed and so not read.
var ArrearsLayout = Layout{
	Name:         "arrears",
	PolicyNo:     []string{ColPolicyNo},
	Title:        []string{ColTitle},
	PolicyHolder: []string{ColPolicyHolder},
	Addr1:        []string{ColAddr1},
	Addr2:        []string{ColAddr2},
	Addr4:        []string{ColAddr4},
	FullAddress:  []string{ColFullAddress},
	Arrears:      []string{ColArrears},
	CoverFrom:    []string{ColCoverFrom},
	CoverTo:      []string{ColCoverTo},
	Email:        []string{ColEmail},
	Mobile:       []string{ColMobile},
	NationalID:   []string{ColNationalID},
	Comments:     []string{ColComments},
}

// InactiveLayout reads the inactive policy extract, whose column names vary
// between exports
var InactiveLayout = Layout{
	Name:         "inactive",
	PolicyNo:     []string{"Policy No", "POL_NO", "Policy_No", "PolicyNo", "Pol No"},
	Title:        []string{"Tittle", "Title"},
	PolicyHolder: []string{"Policy Holder", "POLICY_HOLDER", "Policy_Holder", "PolicyHolder"},
	Product:      []string{"Product Name"},
	Addr1:        []string{"Address 1", "POL_PH_ADDR1", "Address1"},
	Addr2:        []string{"Address 2", "POL_PH_ADDR2", "Address2"},
	Addr3:        []string{"Address 3", "POL_PH_ADDR3", "Address3"},
	FullAddress:  []string{"FULL_ADDRESS", "Full_Address", "FullAddress", "Full Address"},
	Arrears:      []string{"Outstanding Amount", "TrueArrears", "True_Arrears", "Arrears"},
	CoverFrom:    []string{"Start Date", "POL_FROM_DT", "StartDate", "From_Date"},
	CoverTo:      []string{"End Date", "POL_TO_DT", "EndDate", "To_Date"},
	Email:        []string{"PH_EMAIL", "Email", "Policy Holder Email"},
	Mobile:       []string{"Policy Holder Mobile Number", "PH_MOBILE", "Mobile", "Mobile Number"},
	NationalID:   []string{"Policy Holder NID", "PH_NID", "NID", "National ID"},
	Comments:     []string{ColComments},
}

// Layouts lists the known extract formats by name
var Layouts = map[string]Layout{
	ArrearsLayout.Name:  ArrearsLayout,
	InactiveLayout.Name: InactiveLayout,
}

// LayoutByName returns a known layout
func LayoutByName(name string) (Layout, error) {
	l, ok := Layouts[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Layout{}, fmt.Errorf("unknown extract layout %q", name)
	}
	return l, nil
}

// CSVReader reads arrears rows exported from the policy system
type CSVReader struct {
	// Windows1252 decodes exports saved by Excel on Windows
	Windows1252 bool
	// Layout defaults to ArrearsLayout
	Layout Layout
}

// ReadFile reads every row of the CSV file at path
func (cr CSVReader) ReadFile(path string) ([]letters.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	records, err := cr.Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// Read parses arrears rows from r. Columns are located by header name, so
// their order does not matter and unknown columns are ignored.
func (cr CSVReader) Read(r io.Reader) ([]letters.Record, error) {
	layout := cr.Layout
	if layout.Name == "" {
		layout = ArrearsLayout
	}
	if cr.Windows1252 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = headerKey(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if !hasAny(cols, layout.PolicyNo) || !hasAny(cols, layout.PolicyHolder) {
		return nil, ErrMissingColumns
	}

	var records []letters.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(aliases []string) string {
			for _, alias := range aliases {
				i, ok := cols[headerKey(alias)]
				if !ok || i >= len(row) {
					continue
				}
				if v := cleanCell(row[i]); v != "" {
					return v
				}
			}
			return ""
		}
		amount := func(aliases []string) float64 {
			for _, alias := range aliases {
				if v := letters.ParseAmount(get([]string{alias})); v > 0 {
					return v
				}
			}
			return 0
		}

		records = append(records, letters.Record{
			PolicyNo:     get(layout.PolicyNo),
			Title:        get(layout.Title),
			PolicyHolder: get(layout.PolicyHolder),
			Product:      get(layout.Product),
			Addr1:        get(layout.Addr1),
			Addr2:        get(layout.Addr2),
			Addr3:        get(layout.Addr3),
			Addr4:        get(layout.Addr4),
			FullAddress:  get(layout.FullAddress),
			Arrears:      amount(layout.Arrears),
			CoverFrom:    get(layout.CoverFrom),
			CoverTo:      get(layout.CoverTo),
			Email:        get(layout.Email),
			Mobile:       get(layout.Mobile),
			NationalID:   get(layout.NationalID),
			Comments:     get(layout.Comments),
		})
	}
	return records, nil
}

// headerKey normalises a header for matching: exports differ in case and
// stray spaces ("Outstanding Amount ")
func headerKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func hasAny(cols map[string]int, aliases []string) bool {
	for _, alias := range aliases {
		if _, ok := cols[headerKey(alias)]; ok {
			return true
		}
	}
	return false
}

// cleanCell trims a cell and blanks the placeholders spreadsheets write for
// missing values
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "null", "none", "#n/a":
		return ""
	}
	return s
}
