package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/crm-board/internal/usecase"
	"go.uber.org/zap"
)

const (
	CodeInvalidJSON = "INVALID_JSON"
	CodeMissingID   = "MISSING_ID"
	CodeInternal    = "INTERNAL_ERROR"
)

// limite do corpo das requisições JSON
const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// writeUsecaseError traduz DomainError/TechnicalError para status HTTP.
// Detalhes de falhas técnicas ficam só no log.
func writeUsecaseError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorResponse(w, domainStatus(de.Code), de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		logger.Error("falha técnica", zap.String("code", te.Code), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, "internal error")
		return
	}

	logger.Error("erro inesperado", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeWhatsAppIDTaken:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
