package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/lead-ledger/internal/usecase"
)

type ErrorResponse struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeUseCaseError maps the use case error taxonomy onto HTTP statuses.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeLeadNotFound:
			status = http.StatusNotFound
		case usecase.CodeInvalidTransition:
			status = http.StatusConflict
		}
		writeJSON(w, status, ErrorResponse{Code: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		writeError(w, http.StatusServiceUnavailable, te.Code, "storage unavailable, try again")
		return
	}

	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// queryAmount returns def when key is absent.
func queryAmount(r *http.Request, key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return decimal.NewFromString(raw)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
