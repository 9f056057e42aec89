package letters

import (
	"strconv"
	"strings"
	"time"
)

// LetterDateLayout is how dates are printed on a letter, e.g. 05 March 2024
const LetterDateLayout = "02 January 2006"

// PaymentDays is how long the holder has to settle after the letter date
const PaymentDays = 10

// dateLayouts are the date forms found in policy extracts. Slashed dates
// are day first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	"02-Jan-2006",
	"02-Jan-06",
	"2 January 2006",
	"20060102",
}

// excelEpoch is day zero of spreadsheet serial dates
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial is 31 December 9999
const maxExcelSerial = 2958465

// ParseDate reads a date from an extract cell. Plain numbers are spreadsheet
// serial dates.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 1 && f <= maxExcelSerial {
		return excelEpoch.Add(time.Duration(f * float64(24*time.Hour))), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate prints an extract date the way letters show it. Values that are
// not dates are returned trimmed but otherwise unchanged.
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.Format(LetterDateLayout)
}

// CoverPeriod is the "from to to" span of a policy, or "" when neither end
// is known
func CoverPeriod(from, to string) string {
	if blank(from) && blank(to) {
		return ""
	}
	return FormatDate(from) + " to " + FormatDate(to)
}

// Deadline is the settlement date printed on a letter dated at
func Deadline(at time.Time) time.Time {
	return at.AddDate(0, 0, PaymentDays)
}
