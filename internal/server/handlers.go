package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/portfolio-sentinel/internal/domain"
)

// handleHealth reports service liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"computing": s.engine.IsComputing(),
	})
}

// handleGetMetrics returns the latest metrics snapshot plus the computing
// flag and last error. A missing snapshot is not an error: the client shows
// an empty state.
func (s *Server) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()

	response := map[string]interface{}{
		"computing":  s.engine.IsComputing(),
		"last_error": s.engine.LastError(),
	}
	if snap != nil {
		response["metrics"] = snap.Metrics
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleGetExposures returns the three exposure bucket lists
func (s *Server) handleGetExposures(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	if snap == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sector":      snap.SectorExposure,
		"country":     snap.CountryExposure,
		"asset_class": snap.AssetClassExposure,
	})
}

// handleGetAlerts returns the concentration and sector risk alert lists
func (s *Server) handleGetAlerts(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	if snap == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"concentration": snap.ConcentrationAlerts,
		"sector_risk":   snap.SectorRiskAlerts,
	})
}

// handleGetDividendCalendar returns the dividend payments calendar
func (s *Server) handleGetDividendCalendar(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	if snap == nil {
		s.writeJSON(w, http.StatusOK, []domain.DividendPayment{})
		return
	}

	s.writeJSON(w, http.StatusOK, snap.DividendCalendar)
}

// handleGetNews returns the news items from the last run
func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	if snap == nil {
		s.writeJSON(w, http.StatusOK, []interface{}{})
		return
	}

	s.writeJSON(w, http.StatusOK, snap.News)
}

// handleRefresh forces a new analytics run
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.holdings.All()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	go func() {
		if err := s.engine.Refresh(context.Background(), holdings); err != nil {
			s.log.Warn().Err(err).Msg("Manual refresh did not complete")
		}
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

// handleGetHoldings returns all holdings
func (s *Server) handleGetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.holdings.All()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if holdings == nil {
		holdings = []domain.Holding{}
	}
	s.writeJSON(w, http.StatusOK, holdings)
}

// handlePutHolding inserts or updates a holding. The store notifies the
// engine, so a fresh analytics run starts automatically.
func (s *Server) handlePutHolding(w http.ResponseWriter, r *http.Request) {
	var h domain.Holding
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid holding payload")
		return
	}

	if err := s.holdings.Upsert(h); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, h)
}

// handleDeleteHolding removes a holding
func (s *Server) handleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	if err := s.holdings.Delete(symbol); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
