package usecase

import (
	"context"

	"github.com/xavierca1/crm-board/internal/entity"
)

type ListBoardUseCase struct {
	Repo ClienteRepositoryInterface
}

func NewListBoardUseCase(repo ClienteRepositoryInterface) *ListBoardUseCase {
	return &ListBoardUseCase{Repo: repo}
}

// Execute agrupa os cards em colunas na ordem do funil. O repositório já
// devolve por last_interaction_at desc, e a ordem se mantém dentro de cada coluna.
func (uc *ListBoardUseCase) Execute(ctx context.Context, input BoardInput) (*BoardOutput, error) {
	filter := entity.BoardFilter{IncludeInactive: input.IncludeInactive}
	columns := entity.AllCrmStatuses()

	if input.Status != "" {
		st, err := entity.ParseCrmStatus(input.Status)
		if err != nil {
			return nil, repoError(err)
		}
		filter.Status = &st
		columns = []entity.CrmStatus{st}
	}

	clientes, err := uc.Repo.ListBoard(ctx, filter)
	if err != nil {
		return nil, repoError(err)
	}

	byStatus := make(map[entity.CrmStatus][]*entity.Cliente, len(columns))
	for _, c := range clientes {
		byStatus[c.StatusCRM] = append(byStatus[c.StatusCRM], c)
	}

	out := &BoardOutput{Columns: make([]BoardColumn, 0, len(columns))}
	for _, st := range columns {
		cards := byStatus[st]
		if cards == nil {
			cards = []*entity.Cliente{}
		}
		out.Columns = append(out.Columns, BoardColumn{Status: st, Count: len(cards), Clientes: cards})
		out.Total += len(cards)
	}

	return out, nil
}
