package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fleetplus/internal/core"
)

// handleVehicleReport serves the full per-vehicle bundle. Responses for the
// default reference day are cached per plate and day, so a bundle cached
// before midnight never serves yesterday's classification; a ?today= override
// always reclassifies fresh.
func (s *Server) handleVehicleReport(w http.ResponseWriter, r *http.Request) {
	plate := core.NormalizePlate(r.PathValue("plate"))

	override := r.URL.Query().Get("today") != ""
	today, err := todayParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	key := reportCacheKey(plate, today)
	if !override {
		if report, found := s.reportCache.Get(key); found {
			slog.DebugContext(r.Context(), "Report cache hit", "plate", plate)
			writeJSON(w, http.StatusOK, report)
			return
		}
	}

	report, err := s.reports.BuildVehicleReport(r.Context(), plate, today)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if !override {
		s.reportCache.Set(key, report)
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleVehicleCosts(w http.ResponseWriter, r *http.Request) {
	plate := core.NormalizePlate(r.PathValue("plate"))

	cctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	costs, err := s.reports.VehicleCosts(cctx, plate)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, costs)
}
