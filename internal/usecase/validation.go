package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/crm-board/internal/entity"
)

const (
	maxNomeLen   = 200
	maxStageLen  = 64
	maxTags      = 20
	maxTagLen    = 32
	maxSourceLen = 64
	maxNotesLen  = 2000
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateCreateClienteInput(input CreateClienteInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.WhatsAppID) == "" {
		errors = append(errors, ValidationError{"whatsapp_id", "is required"})
	} else if _, err := entity.NormalizeWhatsAppID(input.WhatsAppID); err != nil {
		errors = append(errors, ValidationError{"whatsapp_id", "must be 8-20 digits, optionally with + or a WhatsApp JID suffix"})
	}

	if input.Nome != nil && utf8.RuneCountInString(strings.TrimSpace(*input.Nome)) > maxNomeLen {
		errors = append(errors, ValidationError{"nome", fmt.Sprintf("must not exceed %d characters", maxNomeLen)})
	}

	if input.Stage != "" {
		if e := validateStage(input.Stage); e != nil {
			errors = append(errors, *e)
		}
	}

	if input.Metadata != nil {
		errors = append(errors, validateMetadata(*input.Metadata)...)
	}

	return errors
}

func validateStage(stage string) *ValidationError {
	trimmed := strings.TrimSpace(stage)
	if trimmed == "" {
		return &ValidationError{"stage", "is required"}
	}
	if utf8.RuneCountInString(trimmed) > maxStageLen {
		return &ValidationError{"stage", fmt.Sprintf("must not exceed %d characters", maxStageLen)}
	}
	return nil
}

func validateMetadata(m entity.Metadata) []ValidationError {
	var errors []ValidationError

	if utf8.RuneCountInString(m.Source) > maxSourceLen {
		errors = append(errors, ValidationError{"metadata.source", fmt.Sprintf("must not exceed %d characters", maxSourceLen)})
	}
	if utf8.RuneCountInString(m.Notes) > maxNotesLen {
		errors = append(errors, ValidationError{"metadata.notes", fmt.Sprintf("must not exceed %d characters", maxNotesLen)})
	}
	if len(m.Tags) > maxTags {
		errors = append(errors, ValidationError{"metadata.tags", fmt.Sprintf("must not have more than %d tags", maxTags)})
	}
	for _, tag := range m.Tags {
		if strings.TrimSpace(tag) == "" {
			errors = append(errors, ValidationError{"metadata.tags", "must not contain empty tags"})
			break
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			errors = append(errors, ValidationError{"metadata.tags", fmt.Sprintf("tags must not exceed %d characters", maxTagLen)})
			break
		}
	}

	return errors
}

func validationFailed(errs []ValidationError) *DomainError {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(msgs, ", "),
	}
}
