package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nicl-arrears/internal/db"
	"github.com/nicl-arrears/internal/letters"
)

// LetterLister reads stored batches
type LetterLister interface {
	ListLetters(ctx context.Context, batchID int64) ([]db.StoredLetter, error)
}

// LettersHandler prepares letters and serves stored batches
type LettersHandler struct {
	Options letters.Options
	Store   LetterLister // nil when no database is configured
}

// PrepareRequest is one row to turn into a letter
type PrepareRequest struct {
	Record   letters.Record `json:"record"`
	Row      int            `json:"row"`
	Total    int            `json:"total"`
	Category string         `json:"category"`
}

// PrepareResponse carries either the letter or the rejection comment
type PrepareResponse struct {
	Prepared bool            `json:"prepared"`
	Letter   *letters.Letter `json:"letter,omitempty"`
	Comments string          `json:"comments,omitempty"`
}

// BatchResponse lists the rows of a stored batch
type BatchResponse struct {
	BatchID  int64             `json:"batch_id"`
	Letters  []db.StoredLetter `json:"letters"`
	Count    int               `json:"count"`
	Prepared int               `json:"prepared"`
}

// Prepare handles POST /api/letters/prepare
func (h *LettersHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	var req PrepareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request")
		return
	}
	if req.Row <= 0 {
		req.Row = 1
	}
	if req.Total < req.Row {
		req.Total = req.Row
	}

	opts := h.Options
	if req.Category != "" {
		opts.Category = req.Category
	}

	letter, err := letters.Prepare(r.Context(), req.Record, req.Row, req.Total, opts)
	var rowErr *letters.RowError
	switch {
	case errors.As(err, &rowErr):
		writeJSON(w, http.StatusOK, PrepareResponse{Comments: rowErr.Comment})
	case err != nil:
		log.Printf("Failed to prepare letter: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to prepare letter")
	default:
		writeJSON(w, http.StatusOK, PrepareResponse{Prepared: true, Letter: letter, Comments: letters.GeneratedComment})
	}
}

func (h *LettersHandler) batchLetters(w http.ResponseWriter, r *http.Request) (int64, []db.StoredLetter, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return 0, nil, false
	}
	rows, err := h.Store.ListLetters(r.Context(), id)
	if err != nil {
		log.Printf("Failed to list batch %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return 0, nil, false
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "Batch not found")
		return 0, nil, false
	}
	return id, rows, true
}

// ListBatch handles GET /api/batches/{id}/letters
func (h *LettersHandler) ListBatch(w http.ResponseWriter, r *http.Request) {
	id, rows, ok := h.batchLetters(w, r)
	if !ok {
		return
	}
	resp := BatchResponse{BatchID: id, Letters: rows, Count: len(rows)}
	for _, l := range rows {
		if l.Prepared() {
			resp.Prepared++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
