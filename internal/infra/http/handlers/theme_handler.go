package handlers

import (
	"net/http"

	"github.com/xavierca1/crm-board/internal/theme"
)

// ThemeHandler serve os tokens de tema que o build do front consome.
type ThemeHandler struct {
	Theme theme.Config
}

func NewThemeHandler(cfg theme.Config) *ThemeHandler {
	return &ThemeHandler{Theme: cfg}
}

func (h *ThemeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, h.Theme)
}
