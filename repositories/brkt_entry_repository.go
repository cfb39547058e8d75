package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/models"
	"github.com/lib/pq"
)

var (
	ErrBrktEntryNotFound = errors.New("bracket entry not found")
	ErrBrktEntryInvalid  = errors.New("invalid bracket entry")
)

type BrktEntryRepository interface {
	ListByBrkt(ctx context.Context, exec SQLExecutor, brktID string) ([]models.BrktEntry, error)
	// Upsert and Delete return ErrBrktLocked once the bracket is locked.
	Upsert(ctx context.Context, entry *models.BrktEntry) error
	Delete(ctx context.Context, brktID, playerID string) error
}

type postgresBrktEntryRepository struct {
	db *sql.DB
}

func NewPostgresBrktEntryRepository(db *sql.DB) BrktEntryRepository {
	return &postgresBrktEntryRepository{db: db}
}

func (r *postgresBrktEntryRepository) ListByBrkt(ctx context.Context, exec SQLExecutor, brktID string) ([]models.BrktEntry, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT id, brkt_id, player_id, num_brackets, time_stamp, updated_at
		FROM brkt_entries
		WHERE brkt_id = $1
		ORDER BY time_stamp ASC, player_id ASC`
	rows, err := exec.QueryContext(ctx, query, brktID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.BrktEntry, 0)
	for rows.Next() {
		var e models.BrktEntry
		if scanErr := rows.Scan(&e.ID, &e.BrktID, &e.PlayerID, &e.NumBrackets, &e.TimeStamp, &e.UpdatedAt); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// withUnlockedBrkt runs fn in a transaction holding a share lock on the
// bracket row. Locking the bracket takes the row for update, so an entry
// write either commits before the lock reads entries or sees locked = true.
func (r *postgresBrktEntryRepository) withUnlockedBrkt(ctx context.Context, brktID string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked bool
	err = tx.QueryRowContext(ctx, `SELECT locked FROM brkts WHERE id = $1 FOR SHARE`, brktID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBrktNotFound
		}
		return err
	}
	if locked {
		return ErrBrktLocked
	}

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Upsert inserts the entry or updates num_brackets of an existing one.
// time_stamp is only written on insert so a player keeps their place.
func (r *postgresBrktEntryRepository) Upsert(ctx context.Context, entry *models.BrktEntry) error {
	query := `
		INSERT INTO brkt_entries (id, brkt_id, player_id, num_brackets, time_stamp, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (brkt_id, player_id)
		DO UPDATE SET num_brackets = EXCLUDED.num_brackets, updated_at = NOW()
		RETURNING id, time_stamp, updated_at`
	return r.withUnlockedBrkt(ctx, entry.BrktID, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query,
			entry.ID,
			entry.BrktID,
			entry.PlayerID,
			entry.NumBrackets,
			entry.TimeStamp,
		).Scan(&entry.ID, &entry.TimeStamp, &entry.UpdatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				switch pqErr.Code {
				case "23503": // foreign_key_violation
					if pqErr.Constraint == "brkt_entries_brkt_id_fkey" {
						return ErrBrktNotFound
					}
				case "23514": // check_violation
					return fmt.Errorf("%w: %s", ErrBrktEntryInvalid, pqErr.Message)
				}
			}
			return err
		}
		return nil
	})
}

func (r *postgresBrktEntryRepository) Delete(ctx context.Context, brktID, playerID string) error {
	return r.withUnlockedBrkt(ctx, brktID, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM brkt_entries WHERE brkt_id = $1 AND player_id = $2`, brktID, playerID)
		if err != nil {
			return err
		}
		return checkAffectedRows(result, ErrBrktEntryNotFound)
	})
}
