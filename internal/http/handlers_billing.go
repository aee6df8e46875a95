package http

import (
	"net/http"

	"fleetplus/internal/core"
)

func (s *Server) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var sup core.Supplier
	if err := decodeJSON(r, &sup); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := s.fleet.CreateSupplier(r.Context(), sup)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	sup.ID = id
	writeJSON(w, http.StatusCreated, sup)
}

func (s *Server) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.store.ListSuppliers(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (s *Server) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	sup, err := s.store.GetSupplier(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

func (s *Server) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var sup core.Supplier
	if err := decodeJSON(r, &sup); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	sup.ID = id
	if err := s.fleet.UpdateSupplier(r.Context(), sup); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

func (s *Server) handleDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.fleet.DeleteSupplier(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSupplierInvoices(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	invoices, err := s.store.ListInvoicesBySupplier(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv core.Invoice
	if err := decodeJSON(r, &inv); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := s.fleet.CreateInvoice(r.Context(), inv)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(inv.Plate)
	inv.ID = id
	inv.Plate = core.NormalizePlate(inv.Plate)
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	inv, err := s.store.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var inv core.Invoice
	if err := decodeJSON(r, &inv); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	// An update may move the invoice between vehicles; drop both bundles.
	if prev, err := s.store.GetInvoice(r.Context(), id); err == nil {
		defer s.invalidateReport(prev.Plate)
	}
	inv.ID = id
	if err := s.fleet.UpdateInvoice(r.Context(), inv); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(inv.Plate)
	inv.Plate = core.NormalizePlate(inv.Plate)
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if inv, err := s.store.GetInvoice(r.Context(), id); err == nil {
		defer s.invalidateReport(inv.Plate)
	}
	if err := s.fleet.DeleteInvoice(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeJSON(r, &e); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id, err := s.fleet.CreateExpense(r.Context(), e)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(e.Plate)
	e.ID = id
	e.Plate = core.NormalizePlate(e.Plate)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	e, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var e core.Expense
	if err := decodeJSON(r, &e); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if prev, err := s.store.GetExpense(r.Context(), id); err == nil {
		defer s.invalidateReport(prev.Plate)
	}
	e.ID = id
	if err := s.fleet.UpdateExpense(r.Context(), e); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	s.invalidateReport(e.Plate)
	e.Plate = core.NormalizePlate(e.Plate)
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if e, err := s.store.GetExpense(r.Context(), id); err == nil {
		defer s.invalidateReport(e.Plate)
	}
	if err := s.fleet.DeleteExpense(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
