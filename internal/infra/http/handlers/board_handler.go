package handlers

import (
	"net/http"
	"strconv"

	"github.com/xavierca1/crm-board/internal/usecase"
	"go.uber.org/zap"
)

type BoardHandler struct {
	ListBoardUC *usecase.ListBoardUseCase
	logger      *zap.Logger
}

func NewBoardHandler(uc *usecase.ListBoardUseCase, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{ListBoardUC: uc, logger: logger}
}

// Handle (GET /board?status=&include_inactive=)
func (h *BoardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := usecase.BoardInput{Status: q.Get("status")}
	if raw := q.Get("include_inactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation,
				"validation failed: include_inactive (must be a boolean)")
			return
		}
		input.IncludeInactive = v
	}

	output, err := h.ListBoardUC.Execute(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}
