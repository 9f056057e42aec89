package letters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reInvalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\n\r\t]`)
	reUnderscoreRuns   = regexp.MustCompile(`[_\s]+`)
)

const maxFileStem = 50

// SanitizeFilename makes s safe to use as part of a file name on any
// platform. The result is at most 50 characters.
func SanitizeFilename(s string) string {
	safe := reInvalidFileChars.ReplaceAllString(s, "_")
	safe = reUnderscoreRuns.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_. ")
	if utf8.RuneCountInString(safe) > maxFileStem {
		safe = strings.TrimRight(truncate(safe, maxFileStem), "_")
	}
	if safe == "" || safe == "." || safe == ".." {
		return "unknown"
	}
	return safe
}

// SequenceNumber zero-pads a 1-based row number to the width of total, so
// file names sort in input order
func SequenceNumber(row, total int) string {
	width := len(strconv.Itoa(total))
	return fmt.Sprintf("%0*d", width, row)
}

// DocumentName is the output file name of one letter
func DocumentName(sequence, category, policyNo, customer string) string {
	return fmt.Sprintf("%s_%s_%s_%s_arrears.pdf",
		sequence, category, SanitizeFilename(policyNo), SanitizeFilename(customer))
}
