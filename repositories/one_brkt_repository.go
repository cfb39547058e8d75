package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/models"
	"github.com/lib/pq"
)

type OneBrktRepository interface {
	// ReplaceForBrkt deletes every persisted bracket and seed of brktID and
	// writes oneBrkts (with their seeds) in their place.
	ReplaceForBrkt(ctx context.Context, exec SQLExecutor, brktID string, oneBrkts []models.OneBrkt) error
	ListByBrkt(ctx context.Context, brktID string) ([]models.OneBrkt, error)
}

type postgresOneBrktRepository struct {
	db *sql.DB
}

func NewPostgresOneBrktRepository(db *sql.DB) OneBrktRepository {
	return &postgresOneBrktRepository{db: db}
}

func (r *postgresOneBrktRepository) ReplaceForBrkt(ctx context.Context, exec SQLExecutor, brktID string, oneBrkts []models.OneBrkt) error {
	if exec == nil {
		exec = r.db
	}

	if _, err := exec.ExecContext(ctx,
		`DELETE FROM brkt_seeds WHERE one_brkt_id IN (SELECT id FROM one_brkts WHERE brkt_id = $1)`, brktID); err != nil {
		return fmt.Errorf("failed to delete seeds of bracket %s: %w", brktID, err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM one_brkts WHERE brkt_id = $1`, brktID); err != nil {
		return fmt.Errorf("failed to delete one_brkts of bracket %s: %w", brktID, err)
	}

	for _, ob := range oneBrkts {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO one_brkts (id, brkt_id, bindex) VALUES ($1, $2, $3)`,
			ob.ID, brktID, ob.BIndex); err != nil {
			return fmt.Errorf("failed to insert one_brkt %s: %w", ob.ID, err)
		}
	}

	stmt, err := exec.PrepareContext(ctx, pq.CopyIn("brkt_seeds", "one_brkt_id", "seed_index", "player_id"))
	if err != nil {
		return fmt.Errorf("failed to prepare seed copy: %w", err)
	}
	for _, ob := range oneBrkts {
		for _, seed := range ob.Seeds {
			if _, err := stmt.ExecContext(ctx, ob.ID, seed.SeedIndex, seed.PlayerID); err != nil {
				_ = stmt.Close()
				return fmt.Errorf("failed to copy seed %d of one_brkt %s: %w", seed.SeedIndex, ob.ID, err)
			}
		}
	}
	// Пустой Exec сбрасывает буфер COPY.
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("failed to flush seed copy: %w", err)
	}
	return stmt.Close()
}

func (r *postgresOneBrktRepository) ListByBrkt(ctx context.Context, brktID string) ([]models.OneBrkt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, brkt_id, bindex FROM one_brkts WHERE brkt_id = $1 ORDER BY bindex ASC`, brktID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	oneBrkts := make([]models.OneBrkt, 0)
	byID := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		var ob models.OneBrkt
		if scanErr := rows.Scan(&ob.ID, &ob.BrktID, &ob.BIndex); scanErr != nil {
			return nil, scanErr
		}
		byID[ob.ID] = len(oneBrkts)
		ids = append(ids, ob.ID)
		oneBrkts = append(oneBrkts, ob)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return oneBrkts, nil
	}

	seedRows, err := r.db.QueryContext(ctx, `
		SELECT one_brkt_id, seed_index, player_id
		FROM brkt_seeds
		WHERE one_brkt_id = ANY($1)
		ORDER BY one_brkt_id ASC, seed_index ASC`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer seedRows.Close()

	for seedRows.Next() {
		var seed models.BrktSeed
		if scanErr := seedRows.Scan(&seed.OneBrktID, &seed.SeedIndex, &seed.PlayerID); scanErr != nil {
			return nil, scanErr
		}
		if i, ok := byID[seed.OneBrktID]; ok {
			oneBrkts[i].Seeds = append(oneBrkts[i].Seeds, seed)
		}
	}
	if err = seedRows.Err(); err != nil {
		return nil, err
	}
	return oneBrkts, nil
}
