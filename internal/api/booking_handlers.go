package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"parkspot/internal/apperrors"
	"parkspot/internal/auth"
	"parkspot/internal/entities"
	"parkspot/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func parseWindow(r *http.Request) (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, r.URL.Query().Get("start_time"))
	if err != nil {
		return start, end, apperrors.Validation("start_time must be RFC 3339")
	}
	end, err = time.Parse(time.RFC3339, r.URL.Query().Get("end_time"))
	if err != nil {
		return start, end, apperrors.Validation("end_time must be RFC 3339")
	}
	return start, end, nil
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	resp, err := h.Service.Create(auth.FromContext(r.Context()).UserID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	ident := auth.FromContext(r.Context())
	var (
		resp []entities.BookingResponse
		err  error
	)
	if r.URL.Query().Get("owner") == "true" {
		resp, err = h.Service.ListForOwner(ident.UserID)
	} else {
		resp, err = h.Service.ListForRenter(ident.UserID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.Get(mux.Vars(r)["reference"], auth.FromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req entities.PayRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("invalid request body"))
			return
		}
	}
	resp, err := h.Service.Pay(mux.Vars(r)["reference"], auth.FromContext(r.Context()), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req entities.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	resp, err := h.Service.Confirm(mux.Vars(r)["reference"], auth.FromContext(r.Context()), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.CheckIn(mux.Vars(r)["reference"], auth.FromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.CheckOut(mux.Vars(r)["reference"], auth.FromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.Cancel(mux.Vars(r)["reference"], auth.FromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) SlotAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	start, end, err := parseWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Service.SlotAvailability(id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
