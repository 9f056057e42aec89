// Package letters turns arrears rows into the data an arrears notice is
// rendered from: validated recipient, address block, payment request and
// output file name.
package letters

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one policy row of an arrears extract
type Record struct {
	PolicyNo     string  `json:"pol_no"`
	Title        string  `json:"ph_title"`
	PolicyHolder string  `json:"policy_holder"`
	Product      string  `json:"product_name,omitempty"`
	Addr1        string  `json:"pol_ph_addr1"`
	Addr2        string  `json:"pol_ph_addr2"`
	Addr3        string  `json:"pol_ph_addr3,omitempty"` // inactive policy extracts only
	Addr4        string  `json:"pol_ph_addr4"`
	FullAddress  string  `json:"full_address"`
	Arrears      float64 `json:"true_arrears"`
	CoverFrom    string  `json:"pol_from_dt"`
	CoverTo      string  `json:"pol_to_dt"`
	Email        string  `json:"ph_email"`
	Mobile       string  `json:"ph_mobile"`
	NationalID   string  `json:"payor_national_id"`
	Comments     string  `json:"comments"`
}

// CustomerName is the title and holder name as printed on the letter
func (r Record) CustomerName() string {
	return strings.TrimSpace(strings.TrimSpace(r.Title) + " " + strings.TrimSpace(r.PolicyHolder))
}

// ParseAmount reads an arrears amount, treating anything unparseable as zero
func ParseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// HasAddressFields reports whether any per-line address field is filled
func HasAddressFields(rec Record) bool {
	return !blank(rec.Addr1) || !blank(rec.Addr2) || !blank(rec.Addr3) || !blank(rec.Addr4)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
