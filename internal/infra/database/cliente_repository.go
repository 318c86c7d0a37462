package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/xavierca1/crm-board/internal/entity"
	"go.uber.org/zap"
)

const clienteColumns = `id, whatsapp_id, nome, status_crm, stage, trava, is_active, qualificado,
	last_interaction_at, created_at, updated_at, metadata`

type ClienteRepository struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewClienteRepository(db *sql.DB, logger *zap.Logger) *ClienteRepository {
	return &ClienteRepository{DB: db, logger: logger}
}

func (r *ClienteRepository) Create(ctx context.Context, c *entity.Cliente) error {
	query := `
		INSERT INTO clientes (` + clienteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	metadata, err := encodeMetadata(c.Metadata)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		c.ID,
		c.WhatsAppID,
		nullString(c.Nome),
		string(c.StatusCRM),
		c.Stage,
		c.Trava,
		c.IsActive,
		c.Qualificado,
		c.LastInteractionAt,
		c.CreatedAt,
		c.UpdatedAt,
		metadata,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrWhatsAppIDAlreadyExists
		}
		r.logger.Error("erro crítico no banco ao criar cliente", zap.String("cliente_id", c.ID), zap.Error(err))
		return err
	}

	return nil
}

func (r *ClienteRepository) FindByID(ctx context.Context, id string) (*entity.Cliente, error) {
	query := `SELECT ` + clienteColumns + ` FROM clientes WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *ClienteRepository) FindByWhatsAppID(ctx context.Context, whatsappID string) (*entity.Cliente, error) {
	query := `SELECT ` + clienteColumns + ` FROM clientes WHERE whatsapp_id = $1`
	return r.findOne(ctx, query, whatsappID)
}

func (r *ClienteRepository) findOne(ctx context.Context, query string, arg string) (*entity.Cliente, error) {
	c, err := scanCliente(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrClienteNotFound
		}
		return nil, fmt.Errorf("erro ao buscar cliente: %w", err)
	}
	return c, nil
}

// ListBoard devolve os cards mais recentes primeiro.
func (r *ClienteRepository) ListBoard(ctx context.Context, filter entity.BoardFilter) ([]*entity.Cliente, error) {
	var (
		conds []string
		args  []interface{}
	)
	if !filter.IncludeInactive {
		args = append(args, true)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status_crm = $%d", len(args)))
	}

	query := `SELECT ` + clienteColumns + ` FROM clientes`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY last_interaction_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar board: %w", err)
	}
	defer rows.Close()

	var clientes []*entity.Cliente
	for rows.Next() {
		c, err := scanCliente(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear cliente: %w", err)
		}
		clientes = append(clientes, c)
	}
	return clientes, rows.Err()
}

// Patch grava só as colunas presentes em p (mais updated_at). O UPDATE só
// casa se algum valor de fato mudar, então changed=false quer dizer que o
// cliente já estava assim.
//
// Os placeholders seguem a ordem em que aparecem no SQL: o go-sqlite3 trata
// $N como parâmetro nomeado e associa os args por primeira ocorrência.
func (r *ClienteRepository) Patch(ctx context.Context, id string, p entity.ClientePatch) (bool, error) {
	cols, vals := patchColumns(p)
	if len(cols) == 0 {
		return false, errors.New("patch sem campos")
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	args := make([]interface{}, 0, 2*len(cols)+2)
	sets := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		args = append(args, vals[i])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, p.UpdatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, id)
	where := fmt.Sprintf("id = $%d", len(args))

	same := make([]string, 0, len(cols))
	for i, col := range cols {
		args = append(args, vals[i])
		same = append(same, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := "UPDATE clientes SET " + strings.Join(sets, ", ") +
		" WHERE " + where + " AND NOT (" + strings.Join(same, " AND ") + ")"

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao atualizar cliente: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	// nenhuma linha: ou não existe ou nada mudou
	var one int
	err = r.DB.QueryRowContext(ctx, `SELECT 1 FROM clientes WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, entity.ErrClienteNotFound
	}
	if err != nil {
		return false, fmt.Errorf("erro ao buscar cliente: %w", err)
	}
	return false, nil
}

func patchColumns(p entity.ClientePatch) ([]string, []interface{}) {
	var (
		cols []string
		vals []interface{}
	)
	if p.StatusCRM != nil {
		cols = append(cols, "status_crm")
		vals = append(vals, string(*p.StatusCRM))
	}
	if p.Stage != nil {
		cols = append(cols, "stage")
		vals = append(vals, *p.Stage)
	}
	if p.Trava != nil {
		cols = append(cols, "trava")
		vals = append(vals, *p.Trava)
	}
	if p.IsActive != nil {
		cols = append(cols, "is_active")
		vals = append(vals, *p.IsActive)
	}
	if p.Qualificado != nil {
		cols = append(cols, "qualificado")
		vals = append(vals, *p.Qualificado)
	}
	if p.LastInteractionAt != nil {
		cols = append(cols, "last_interaction_at")
		vals = append(vals, p.LastInteractionAt.UTC())
	}
	return cols, vals
}

func (r *ClienteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao remover cliente: %w", err)
	}
	return expectOneRow(res)
}

// DeactivateStale esconde do board os cards sem interação desde before.
func (r *ClienteRepository) DeactivateStale(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE clientes
		SET is_active = $1, updated_at = $2
		WHERE is_active = $3 AND last_interaction_at < $4
	`

	res, err := r.DB.ExecContext(ctx, query, false, time.Now().UTC(), true, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("erro ao desativar cards parados: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCliente(row rowScanner) (*entity.Cliente, error) {
	var (
		c        entity.Cliente
		nome     sql.NullString
		status   string
		metadata sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.WhatsAppID,
		&nome,
		&status,
		&c.Stage,
		&c.Trava,
		&c.IsActive,
		&c.Qualificado,
		&c.LastInteractionAt,
		&c.CreatedAt,
		&c.UpdatedAt,
		&metadata,
	)
	if err != nil {
		return nil, err
	}

	c.StatusCRM, err = entity.ParseCrmStatus(status)
	if err != nil {
		return nil, err
	}
	if nome.Valid {
		c.Nome = &nome.String
	}
	if metadata.Valid && metadata.String != "" {
		var m entity.Metadata
		if err := json.Unmarshal([]byte(metadata.String), &m); err != nil {
			return nil, fmt.Errorf("metadata corrompido: %w", err)
		}
		c.Metadata = &m
	}

	return &c, nil
}

func encodeMetadata(m *entity.Metadata) (interface{}, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar metadata: %w", err)
	}
	return string(b), nil
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrClienteNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
