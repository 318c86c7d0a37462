package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Transaction executa passos em ordem; se um falhar, desfaz os anteriores
// na ordem inversa (saga simples, sem transação de banco).
type Transaction struct {
	steps  []step
	logger *zap.Logger

	// RollbackTimeout limita o tempo total das compensações.
	RollbackTimeout time.Duration
}

const defaultRollbackTimeout = 5 * time.Second

type step struct {
	name string
	do   func(context.Context) error
	undo func(context.Context) error
}

func NewTransaction(logger *zap.Logger) *Transaction {
	return &Transaction{logger: logger, RollbackTimeout: defaultRollbackTimeout}
}

// AddStep registra uma operação e sua compensação (undo pode ser nil).
func (t *Transaction) AddStep(name string, do, undo func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, do: do, undo: undo})
}

// StepError identifica qual passo quebrou a transação. RolledBack conta só
// as compensações que deram certo.
type StepError struct {
	Step       string
	RolledBack int
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("operation '%s' failed: %v (rolled back %d operations)", e.Step, e.Err, e.RolledBack)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.do(ctx); err != nil {
			undone := t.rollback(ctx, i)
			return &StepError{Step: s.name, RolledBack: undone, Err: err}
		}
	}
	return nil
}

// rollback roda desacoplado do cancelamento do ctx original: se o passo
// falhou porque a requisição caiu, a compensação ainda precisa acontecer.
func (t *Transaction) rollback(ctx context.Context, failedAt int) int {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.RollbackTimeout)
	defer cancel()

	undone := 0
	for i := failedAt - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.undo == nil {
			continue
		}
		if err := s.undo(ctx); err != nil {
			t.logger.Error("compensação falhou, risco de inconsistência",
				zap.String("step", s.name), zap.Error(err))
			continue
		}
		undone++
	}
	return undone
}
