package http

import (
	"net/http"

	"fleetplus/internal/core"
)

func (s *Server) handleCreateServiceEvent(w http.ResponseWriter, r *http.Request) {
	var e core.ServiceEvent
	if err := decodeJSON(r, &e); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := s.fleet.CreateServiceEvent(r.Context(), e)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(e.Plate)
	e.ID = id
	e.Plate = core.NormalizePlate(e.Plate)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetServiceEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	e, err := s.store.GetServiceEvent(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateServiceEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var e core.ServiceEvent
	if err := decodeJSON(r, &e); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	e.ID = id
	if err := s.fleet.UpdateServiceEvent(r.Context(), e); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(e.Plate)
	e.Plate = core.NormalizePlate(e.Plate)
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteServiceEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	// Fetch first so the owning vehicle's cached report can be dropped.
	if e, err := s.store.GetServiceEvent(r.Context(), id); err == nil {
		defer s.invalidateReport(e.Plate)
	}
	if err := s.fleet.DeleteServiceEvent(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleServiceEventProjection answers the next-due query for one event.
func (s *Server) handleServiceEventProjection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	projection, err := s.reports.ProjectServiceEvent(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

func (s *Server) handleCreateObligation(w http.ResponseWriter, r *http.Request) {
	var o core.Obligation
	if err := decodeJSON(r, &o); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := s.fleet.CreateObligation(r.Context(), o)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(o.Plate)
	o.ID = id
	o.Plate = core.NormalizePlate(o.Plate)
	if o.Status == "" {
		o.Status = core.DefaultObligationStatus
	}
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) handleGetObligation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	o, err := s.store.GetObligation(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleUpdateObligation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var o core.Obligation
	if err := decodeJSON(r, &o); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	o.ID = id
	if err := s.fleet.UpdateObligation(r.Context(), o); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(o.Plate)
	o.Plate = core.NormalizePlate(o.Plate)
	if o.Status == "" {
		o.Status = core.DefaultObligationStatus
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleDeleteObligation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if o, err := s.store.GetObligation(r.Context(), id); err == nil {
		defer s.invalidateReport(o.Plate)
	}
	if err := s.fleet.DeleteObligation(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleObligationStatus classifies one obligation. The reference day defaults
// to the current day and can be overridden with ?today=YYYY-MM-DD.
func (s *Server) handleObligationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	today, err := todayParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	state, err := s.reports.ObligationState(r.Context(), id, today)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ObligationID int64                `json:"obligation_id"`
		State        core.ObligationState `json:"state"`
		Today        string               `json:"today"`
	}{ObligationID: id, State: state, Today: core.FormatDate(today)})
}
