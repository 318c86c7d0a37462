package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/crm-board/internal/infra/http/middleware"
	"github.com/xavierca1/crm-board/internal/usecase"
	"go.uber.org/zap"
)

type ClienteHandler struct {
	CreateUC  *usecase.CreateClienteUseCase
	ClienteUC *usecase.ClienteUseCase
	logger    *zap.Logger
}

func NewClienteHandler(createUC *usecase.CreateClienteUseCase, clienteUC *usecase.ClienteUseCase, logger *zap.Logger) *ClienteHandler {
	return &ClienteHandler{
		CreateUC:  createUC,
		ClienteUC: clienteUC,
		logger:    logger,
	}
}

// Corpos dos PATCH. Campos booleanos são ponteiros para distinguir
// "ausente" de false.
type statusRequest struct {
	StatusCRM string `json:"status_crm"`
}

type travaRequest struct {
	Trava *bool `json:"trava"`
}

type stageRequest struct {
	Stage string `json:"stage"`
}

type qualificadoRequest struct {
	Qualificado *bool `json:"qualificado"`
}

type activeRequest struct {
	IsActive *bool `json:"is_active"`
}

// Create (POST /clientes)
func (h *ClienteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateClienteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}

	middleware.RecordClienteCreated()
	writeJSON(w, http.StatusCreated, output)
}

// Get (GET /clientes/{id})
func (h *ClienteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.ClienteUC.Get(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetByWhatsAppID (GET /clientes/whatsapp/{whatsappId})
func (h *ClienteHandler) GetByWhatsAppID(w http.ResponseWriter, r *http.Request) {
	wa, ok := pathID(w, r, "whatsappId")
	if !ok {
		return
	}

	c, err := h.ClienteUC.GetByWhatsAppID(r.Context(), wa)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete (DELETE /clientes/{id})
func (h *ClienteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ClienteUC.Delete(r.Context(), id); err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus (PATCH /clientes/{id}/status)
func (h *ClienteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.ClienteUC.UpdateStatus(r.Context(), id, req.StatusCRM)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}

	middleware.RecordStatusUpdate(c.StatusCRM.String())
	writeJSON(w, http.StatusOK, c)
}

// SetTrava (PATCH /clientes/{id}/trava). true = humano assume, false = volta pro bot.
func (h *ClienteHandler) SetTrava(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req travaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Trava == nil {
		missingField(w, "trava")
		return
	}

	c, err := h.ClienteUC.SetTrava(r.Context(), id, *req.Trava)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}

	middleware.RecordTravaUpdate(c.Trava)
	writeJSON(w, http.StatusOK, c)
}

// SetStage (PATCH /clientes/{id}/stage)
func (h *ClienteHandler) SetStage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req stageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.ClienteUC.SetStage(r.Context(), id, req.Stage)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// SetQualificado (PATCH /clientes/{id}/qualificado)
func (h *ClienteHandler) SetQualificado(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req qualificadoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Qualificado == nil {
		missingField(w, "qualificado")
		return
	}

	c, err := h.ClienteUC.SetQualificado(r.Context(), id, *req.Qualificado)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// SetActive (PATCH /clientes/{id}/active)
func (h *ClienteHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req activeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IsActive == nil {
		missingField(w, "is_active")
		return
	}

	c, err := h.ClienteUC.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// TouchInteraction (POST /clientes/{id}/interactions)
func (h *ClienteHandler) TouchInteraction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.ClienteUC.TouchInteraction(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		writeErrorResponse(w, http.StatusBadRequest, CodeMissingID, name+" is required")
		return "", false
	}
	return v, true
}

func missingField(w http.ResponseWriter, field string) {
	writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation,
		"validation failed: "+field+" (is required and must be a boolean)")
}
