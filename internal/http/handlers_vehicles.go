package http

import (
	"net/http"

	"fleetplus/internal/core"
)

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var v core.Vehicle
	if err := decodeJSON(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.fleet.CreateVehicle(r.Context(), v); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	v.Plate = core.NormalizePlate(v.Plate)
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.store.ListVehicles(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := s.store.GetVehicle(r.Context(), r.PathValue("plate"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var v core.Vehicle
	if err := decodeJSON(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	v.Plate = r.PathValue("plate")
	if err := s.fleet.UpdateVehicle(r.Context(), v); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(v.Plate)
	v.Plate = core.NormalizePlate(v.Plate)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	plate := r.PathValue("plate")
	if err := s.fleet.DeleteVehicle(r.Context(), plate); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(plate)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateOdometer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OdometerKm int64 `json:"odometer_km"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	plate := r.PathValue("plate")
	if err := s.fleet.UpdateOdometer(r.Context(), plate, body.OdometerKm); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(plate)
	vehicle, err := s.store.GetVehicle(r.Context(), plate)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (s *Server) handleListVehicleServiceEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListServiceEventsByVehicle(r.Context(), r.PathValue("plate"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleListVehicleObligations(w http.ResponseWriter, r *http.Request) {
	obligations, err := s.store.ListObligationsByVehicle(r.Context(), r.PathValue("plate"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, obligations)
}

func (s *Server) handleListVehicleExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpensesByVehicle(r.Context(), r.PathValue("plate"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleListVehicleInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.ListInvoicesByVehicle(r.Context(), r.PathValue("plate"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}
