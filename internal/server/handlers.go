package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Preview and top-customer limits.
const (
	defaultPreviewLimit = 20
	maxPreviewLimit     = 500
	defaultTopCustomers = 10
)

// healthHandler returns server health status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"store":     s.store != nil,
	}
	respondWithJSON(w, http.StatusOK, health)
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reader.ReadSummary()
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No summary available: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.reader.ReadReport()
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No cleaning report available: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (s *Server) segmentsHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reader.ReadSummary()
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No summary available: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary.Segments)
}

func (s *Server) monthlyHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reader.ReadSummary()
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No summary available: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary.MonthlyRevenue)
}

func (s *Server) countriesHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reader.ReadSummary()
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No summary available: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary.CountryShares)
}

func (s *Server) productsHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reader.ReadSummary()
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No summary available: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, summary.ProductABC)
}

func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPreviewLimit)
	if limit > maxPreviewLimit {
		limit = maxPreviewLimit
	}
	records, err := s.reader.PreviewCleaned(limit)
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No cleaned data available: %v", err))
		return
	}
	if len(records) == 0 {
		respondWithError(w, http.StatusNotFound, "Cleaned data artifact is empty")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"columns": records[0],
		"rows":    records[1:],
	})
}

func (s *Server) topCustomersHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Store is not configured")
		return
	}
	summary, err := s.reader.ReadSummary()
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("No summary available: %v", err))
		return
	}

	limit := queryInt(r, "limit", defaultTopCustomers)
	customers, err := s.store.TopCustomers(r.Context(), summary.RunID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Error querying top customers: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, customers)
}

func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	if s.run == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Pipeline runs are not enabled")
		return
	}
	runID, err := s.run(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Pipeline run failed: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"run_id": runID})
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}
