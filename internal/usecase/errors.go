package usecase

import "errors"

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidStatus   = "INVALID_STATUS"
	CodeNotFound        = "NOT_FOUND"
	CodeWhatsAppIDTaken = "WHATSAPP_ID_TAKEN"
	CodeDatabase        = "DATABASE_ERROR"
	CodeQueue           = "QUEUE_ERROR"
)

// DomainError é erro de quem chamou (dados inválidos, registro inexistente).
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é falha de infraestrutura (banco, fila).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
