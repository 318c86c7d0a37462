package usecase

import "github.com/xavierca1/crm-board/internal/entity"

type CreateClienteInput struct {
	WhatsAppID string           `json:"whatsapp_id"`
	Nome       *string          `json:"nome"`
	Stage      string           `json:"stage,omitempty"`
	Metadata   *entity.Metadata `json:"metadata,omitempty"`
}

type BoardInput struct {
	Status          string // vazio = todas as colunas
	IncludeInactive bool
}

type BoardColumn struct {
	Status   entity.CrmStatus  `json:"status_crm"`
	Count    int               `json:"count"`
	Clientes []*entity.Cliente `json:"clientes"`
}

type BoardOutput struct {
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
}
