package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
)

var exportHeader = []string{"ROW", "POL_NO", "CUSTOMER", "ADDRESS_1", "ADDRESS_2", "ADDRESS_3", "ARREARS", "FILE_NAME", "COMMENTS"}

// ExportBatch handles GET /api/batches/{id}/export, writing the batch as CSV
// with the rejection comments the extract is returned with.
func (h *LettersHandler) ExportBatch(w http.ResponseWriter, r *http.Request) {
	id, rows, ok := h.batchLetters(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="batch_%d.csv"`, id))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		log.Printf("Failed to write export header: %v", err)
		return
	}
	for _, l := range rows {
		fileName := ""
		if l.FileName != nil {
			fileName = *l.FileName
		}
		cols := addressColumns(l.Columns, l.Address)
		record := []string{
			strconv.Itoa(l.Row), l.PolicyNo, l.Customer,
			cols[0], cols[1], cols[2],
			strconv.FormatFloat(l.Arrears, 'f', 2, 64), fileName, l.Comments,
		}
		if err := cw.Write(record); err != nil {
			log.Printf("Failed to write export row %d: %v", l.Row, err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("Failed to flush export: %v", err)
	}
}

// addressColumns prefers the stored column layout. Rows stored without one
// spread their address lines from the left.
func addressColumns(columns, address []string) [3]string {
	if len(columns) == 3 {
		return [3]string{columns[0], columns[1], columns[2]}
	}
	return [3]string{line(address, 0), line(address, 1), strings.Join(tail(address), " ")}
}

func line(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

// tail is everything after the second line, so longer stored blocks still
// fit three columns.
func tail(lines []string) []string {
	if len(lines) <= 2 {
		return nil
	}
	return lines[2:]
}
