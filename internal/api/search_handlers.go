package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"parkspot/internal/apperrors"
	"parkspot/internal/entities"
	"parkspot/internal/service"
)

type SearchHandler struct {
	Service *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{Service: svc}
}

const defaultRadiusKm = 5.0

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Service.Search(params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SearchHandler) MapData(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.MapMarkers(r.URL.Query().Get("bounds"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseSearchParams(r *http.Request) (*entities.SearchParams, error) {
	q := r.URL.Query()
	params := &entities.SearchParams{RadiusKm: defaultRadiusKm}

	if v := q.Get("latitude"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperrors.Validation("latitude must be a number")
		}
		params.Latitude = &lat
	}
	if v := q.Get("longitude"); v != "" {
		lng, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperrors.Validation("longitude must be a number")
		}
		params.Longitude = &lng
	}
	if v := q.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperrors.Validation("radius must be a number")
		}
		params.RadiusKm = radius
	}
	if v := q.Get("start_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apperrors.Validation("start_time must be RFC 3339")
		}
		params.StartTime = &t
	}
	if v := q.Get("end_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apperrors.Validation("end_time must be RFC 3339")
		}
		params.EndTime = &t
	}
	params.SlotType = q.Get("slot_type")
	if v := q.Get("max_hourly_rate"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return nil, apperrors.Validation("max_hourly_rate must be a decimal")
		}
		params.MaxHourlyRate = &rate
	}
	if v := q.Get("amenities"); v != "" {
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				params.Amenities = append(params.Amenities, a)
			}
		}
	}
	return params, nil
}
