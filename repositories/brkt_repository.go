package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/models"
)

var (
	ErrBrktNotFound = errors.New("bracket not found")
	ErrBrktLocked   = errors.New("bracket is locked")
)

const brktColumns = `id, div_id, squad_id, start, games, players_per_match, locked, created_at`

type BrktRepository interface {
	GetByID(ctx context.Context, id string) (*models.Brkt, error)
	// GetForUpdate reads the bracket row and holds its lock until exec's
	// transaction ends. Entry writes wait on the same row.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Brkt, error)
	SetLocked(ctx context.Context, exec SQLExecutor, id string, locked bool) error
}

type postgresBrktRepository struct {
	db *sql.DB
}

func NewPostgresBrktRepository(db *sql.DB) BrktRepository {
	return &postgresBrktRepository{db: db}
}

func (r *postgresBrktRepository) GetByID(ctx context.Context, id string) (*models.Brkt, error) {
	return scanBrkt(r.db.QueryRowContext(ctx, `SELECT `+brktColumns+` FROM brkts WHERE id = $1`, id))
}

func (r *postgresBrktRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id string) (*models.Brkt, error) {
	if exec == nil {
		exec = r.db
	}
	return scanBrkt(exec.QueryRowContext(ctx, `SELECT `+brktColumns+` FROM brkts WHERE id = $1 FOR UPDATE`, id))
}

func scanBrkt(row *sql.Row) (*models.Brkt, error) {
	brkt := &models.Brkt{}
	err := row.Scan(
		&brkt.ID,
		&brkt.DivID,
		&brkt.SquadID,
		&brkt.Start,
		&brkt.Games,
		&brkt.PlayersPerMatch,
		&brkt.Locked,
		&brkt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrktNotFound
		}
		return nil, err
	}
	return brkt, nil
}

func (r *postgresBrktRepository) SetLocked(ctx context.Context, exec SQLExecutor, id string, locked bool) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE brkts SET locked = $1 WHERE id = $2`, locked, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBrktNotFound)
}
