package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nicl-arrears/internal/addrsplit"
)

// maxBatchAddresses caps a single POST /api/address/split request
const maxBatchAddresses = 5000

// AddressHandler serves the segmenter
type AddressHandler struct {
	Segmenter *addrsplit.Segmenter
	Splits    prometheus.Counter // optional
}

// SplitResponse is one segmented address
type SplitResponse struct {
	Input string   `json:"input"`
	Lines []string `json:"lines"`
}

// SplitRequest accepts a single address or a list
type SplitRequest struct {
	Address   *string  `json:"address"`
	Addresses []string `json:"addresses"`
}

// SplitBatchResponse holds results in request order
type SplitBatchResponse struct {
	Results []SplitResponse `json:"results"`
	Count   int             `json:"count"`
}

// GazetteerResponse lists the lexicon in use
type GazetteerResponse struct {
	Towns            []string `json:"towns"`
	StreetIndicators []string `json:"street_indicators"`
	AreaIndicators   []string `json:"area_indicators"`
}

func (h *AddressHandler) split(raw string) SplitResponse {
	if h.Splits != nil {
		h.Splits.Inc()
	}
	return SplitResponse{Input: raw, Lines: h.Segmenter.Split(raw).Slice()}
}

// Split handles GET /api/address/split?q=...
func (h *AddressHandler) Split(w http.ResponseWriter, r *http.Request) {
	q, ok := r.URL.Query()["q"]
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing q parameter")
		return
	}
	writeJSON(w, http.StatusOK, h.split(strings.Join(q, " ")))
}

// SplitBatch handles POST /api/address/split
func (h *AddressHandler) SplitBatch(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request")
		return
	}

	switch {
	case req.Address != nil:
		writeJSON(w, http.StatusOK, h.split(*req.Address))
	case req.Addresses != nil:
		if len(req.Addresses) > maxBatchAddresses {
			writeError(w, http.StatusRequestEntityTooLarge, "Too many addresses in one request")
			return
		}
		resp := SplitBatchResponse{Results: make([]SplitResponse, 0, len(req.Addresses))}
		for _, a := range req.Addresses {
			resp.Results = append(resp.Results, h.split(a))
		}
		resp.Count = len(resp.Results)
		writeJSON(w, http.StatusOK, resp)
	default:
		writeError(w, http.StatusBadRequest, "Provide address or addresses")
	}
}

// Gazetteer handles GET /api/gazetteer
func (h *AddressHandler) Gazetteer(w http.ResponseWriter, r *http.Request) {
	g := h.Segmenter.Gazetteer()
	writeJSON(w, http.StatusOK, GazetteerResponse{
		Towns:            g.Towns(),
		StreetIndicators: g.StreetIndicators(),
		AreaIndicators:   g.AreaIndicators(),
	})
}
