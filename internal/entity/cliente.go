package entity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

const DefaultStage = "INTRO"

var (
	ErrClienteNotFound         = errors.New("cliente não encontrado")
	ErrWhatsAppIDAlreadyExists = errors.New("whatsapp_id já cadastrado")
	ErrInvalidWhatsAppID       = errors.New("whatsapp_id inválido")
)

var whatsappDigits = regexp.MustCompile(`^\d{8,20}$`)

// Value Object: Metadata
type Metadata struct {
	Source string   `json:"source,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

// Entidade: Cliente
type Cliente struct {
	ID          string    `json:"id"`
	WhatsAppID  string    `json:"whatsapp_id"`
	Nome        *string   `json:"nome"`
	StatusCRM   CrmStatus `json:"status_crm"`
	Stage       string    `json:"stage"`
	Trava       bool      `json:"trava"` // false = Bot, true = Humano
	IsActive    bool      `json:"is_active"`
	Qualificado bool      `json:"qualificado"`

	LastInteractionAt time.Time `json:"last_interaction_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Metadata *Metadata `json:"metadata,omitempty"`
}

// Factory
func NewCliente(whatsappID string, nome *string) (*Cliente, error) {
	normalized, err := NormalizeWhatsAppID(whatsappID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cliente := &Cliente{
		ID:         uuid.New().String(),
		WhatsAppID: normalized,
		Nome:       CleanNome(nome),

		StatusCRM:   StatusNovo,
		Stage:       DefaultStage,
		Trava:       false,
		IsActive:    true,
		Qualificado: false,

		LastInteractionAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := cliente.Validate(); err != nil {
		return nil, err
	}

	return cliente, nil
}

func (c *Cliente) Validate() error {
	if _, err := uuid.Parse(c.ID); err != nil {
		return errors.New("id must be a uuid")
	}
	if !whatsappDigits.MatchString(c.WhatsAppID) {
		return ErrInvalidWhatsAppID
	}
	if !c.StatusCRM.Valid() {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(c.Stage) == "" {
		return errors.New("stage is required")
	}
	if c.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	if c.LastInteractionAt.IsZero() {
		return errors.New("last_interaction_at is required")
	}
	return nil
}

// ClientePatch carrega só os campos que uma operação altera (nil = não mexe).
// O repositório grava apenas essas colunas, então PATCHes concorrentes em
// campos diferentes não se sobrescrevem.
type ClientePatch struct {
	StatusCRM         *CrmStatus
	Stage             *string
	Trava             *bool
	IsActive          *bool
	Qualificado       *bool
	LastInteractionAt *time.Time

	UpdatedAt time.Time
}

// Empty indica que nenhum campo foi informado.
func (p ClientePatch) Empty() bool {
	return p.StatusCRM == nil && p.Stage == nil && p.Trava == nil &&
		p.IsActive == nil && p.Qualificado == nil && p.LastInteractionAt == nil
}

// InteractionPatch marca uma nova interação; o card volta para o board.
func InteractionPatch(at time.Time) ClientePatch {
	active := true
	return ClientePatch{LastInteractionAt: &at, IsActive: &active, UpdatedAt: at}
}

// NormalizeWhatsAppID accepts bare numbers, "+55..." and JID forms
// ("...@s.whatsapp.net", "...@c.us") and returns the digits only.
func NormalizeWhatsAppID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	id = strings.TrimSuffix(id, "@s.whatsapp.net")
	id = strings.TrimSuffix(id, "@c.us")
	id = strings.TrimPrefix(id, "+")
	if !whatsappDigits.MatchString(id) {
		return "", ErrInvalidWhatsAppID
	}
	return id, nil
}

// CleanNome turns blank names into nil.
func CleanNome(nome *string) *string {
	if nome == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*nome)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// BoardFilter restringe a listagem do board.
type BoardFilter struct {
	Status          *CrmStatus
	IncludeInactive bool
}

type ClienteRepositoryInterface interface {
	Create(ctx context.Context, c *Cliente) error
	FindByID(ctx context.Context, id string) (*Cliente, error)
	FindByWhatsAppID(ctx context.Context, whatsappID string) (*Cliente, error)
	ListBoard(ctx context.Context, filter BoardFilter) ([]*Cliente, error)
	Patch(ctx context.Context, id string, p ClientePatch) (changed bool, err error)
	Delete(ctx context.Context, id string) error
	DeactivateStale(ctx context.Context, before time.Time) (int64, error)
}
