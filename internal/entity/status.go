package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidStatus = errors.New("status_crm inválido")

// CrmStatus é o estágio do cliente no funil. Conjunto fechado.
type CrmStatus string

const (
	StatusNovo        CrmStatus = "novo"
	StatusEmContato   CrmStatus = "em_contato"
	StatusQualificado CrmStatus = "qualificado"
	StatusConvertido  CrmStatus = "convertido"
	StatusPerdido     CrmStatus = "perdido"
)

// Ordem das colunas no board
var allCrmStatuses = [...]CrmStatus{
	StatusNovo,
	StatusEmContato,
	StatusQualificado,
	StatusConvertido,
	StatusPerdido,
}

// AllCrmStatuses returns the statuses in board column order.
func AllCrmStatuses() []CrmStatus {
	out := make([]CrmStatus, len(allCrmStatuses))
	copy(out, allCrmStatuses[:])
	return out
}

// ParseCrmStatus só aceita o valor exato, em minúsculas e sem espaços.
func ParseCrmStatus(s string) (CrmStatus, error) {
	st := CrmStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s CrmStatus) Valid() bool {
	for _, known := range allCrmStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s CrmStatus) String() string {
	return string(s)
}

func (s CrmStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	return json.Marshal(string(s))
}

func (s *CrmStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, string(data))
	}
	parsed, err := ParseCrmStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
