package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/brackets"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/models"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/repositories"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Broadcaster pushes messages to websocket rooms.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// TxBeginner is implemented by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// GridResult is the live view of a bracket's entries. Counts is the full
// and one-bye mix the entries call for. Built counts the instances as they
// stand after the fill and any withdrawn players.
type GridResult struct {
	BrktID       string                `json:"brkt_id"`
	Definition   brackets.Definition   `json:"definition"`
	Counts       brackets.Counts       `json:"counts"`
	Built        brackets.Counts       `json:"built"`
	TotalEntries int                   `json:"total_entries"`
	Grid         brackets.Grid         `json:"grid"`
	Adjustments  []brackets.Adjustment `json:"adjustments,omitempty"`
	Valid        bool                  `json:"valid"`
	Problem      string                `json:"problem,omitempty"`
}

type LockedBracket struct {
	ID       string                   `json:"id"`
	BIndex   int                      `json:"bindex"`
	Players  []string                 `json:"players"`
	Matches  []*brackets.BracketMatch `json:"matches"`
	IsOneBye bool                     `json:"is_one_bye"`
}

type LockedResult struct {
	BrktID    string          `json:"brkt_id"`
	Counts    brackets.Counts `json:"counts"`
	Brackets  []LockedBracket `json:"brackets"`
	ExportURL string          `json:"export_url,omitempty"`
}

type BracketService interface {
	Grid(ctx context.Context, brktID string, without []string) (*GridResult, error)
	PublishGrid(ctx context.Context, brktID string)
	Lock(ctx context.Context, brktID string) (*LockedResult, error)
	Unlock(ctx context.Context, brktID string) error
	Locked(ctx context.Context, brktID string) (*LockedResult, error)
}

type BracketServiceConfig struct {
	MaxBracketsPerEntry int
	// Rand seeds the shuffle of locked brackets; nil uses the clock.
	Rand *rand.Rand
}

type bracketService struct {
	db          TxBeginner
	brktRepo    repositories.BrktRepository
	entryRepo   repositories.BrktEntryRepository
	oneBrktRepo repositories.OneBrktRepository
	uploader    storage.FileUploader
	broadcaster Broadcaster
	logger      *slog.Logger
	generator   brackets.BracketGenerator

	maxRequested int
	rngMu        sync.Mutex
	rng          *rand.Rand
}

func NewBracketService(
	db TxBeginner,
	brktRepo repositories.BrktRepository,
	entryRepo repositories.BrktEntryRepository,
	oneBrktRepo repositories.OneBrktRepository,
	uploader storage.FileUploader, // nil disables export
	broadcaster Broadcaster,
	logger *slog.Logger,
	cfg BracketServiceConfig,
) BracketService {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &bracketService{
		db:           db,
		brktRepo:     brktRepo,
		entryRepo:    entryRepo,
		oneBrktRepo:  oneBrktRepo,
		uploader:     uploader,
		broadcaster:  broadcaster,
		logger:       logger,
		generator:    brackets.NewSingleEliminationGenerator(),
		maxRequested: cfg.MaxBracketsPerEntry,
		rng:          rng,
	}
}

func definitionOf(brkt *models.Brkt) brackets.Definition {
	return brackets.Definition{PlayersPerMatch: brkt.PlayersPerMatch, Games: brkt.Games}
}

func toPlayerEntries(entries []models.BrktEntry) []brackets.PlayerEntry {
	out := make([]brackets.PlayerEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, brackets.PlayerEntry{
			PlayerID:  e.PlayerID,
			Requested: e.NumBrackets,
			EnteredAt: e.TimeStamp,
		})
	}
	return out
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrBrktNotFound):
		return ErrBrktNotFound
	case errors.Is(err, repositories.ErrBrktLocked):
		return ErrBracketLocked
	case errors.Is(err, repositories.ErrBrktEntryNotFound):
		return ErrBrktEntryNotFound
	case errors.Is(err, repositories.ErrBrktEntryInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return err
	}
}

// loadSnapshot reads the bracket definition and its entries in parallel.
func (s *bracketService) loadSnapshot(ctx context.Context, brktID string) (*models.Brkt, []models.BrktEntry, error) {
	var (
		brkt    *models.Brkt
		entries []models.BrktEntry
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.brktRepo.GetByID(gCtx, brktID)
		if err != nil {
			return fmt.Errorf("failed to load bracket %s: %w", brktID, mapRepoError(err))
		}
		brkt = b
		return nil
	})
	g.Go(func() error {
		list, err := s.entryRepo.ListByBrkt(gCtx, nil, brktID)
		if err != nil {
			return fmt.Errorf("failed to list entries for bracket %s: %w", brktID, err)
		}
		entries = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return brkt, entries, nil
}

func (s *bracketService) assign(brkt *models.Brkt, entries []models.BrktEntry) (*brackets.Collection, error) {
	collection, err := brackets.NewCollection(definitionOf(brkt), s.maxRequested)
	if err != nil {
		return nil, fmt.Errorf("bracket %s: %w", brkt.ID, err)
	}
	if err := collection.Assign(toPlayerEntries(entries)); err != nil {
		return nil, fmt.Errorf("bracket %s: %w", brkt.ID, err)
	}
	return collection, nil
}

func (s *bracketService) Grid(ctx context.Context, brktID string, without []string) (*GridResult, error) {
	brkt, entries, err := s.loadSnapshot(ctx, brktID)
	if err != nil {
		return nil, err
	}

	collection, err := s.assign(brkt, entries)
	if err != nil {
		return nil, err
	}
	if len(without) > 0 {
		collection.Withdraw(without...)
	}

	result := &GridResult{
		BrktID:       brkt.ID,
		Definition:   collection.Definition(),
		Counts:       collection.Counts(),
		Built:        collection.BuiltCounts(),
		TotalEntries: collection.TotalEntries(),
		Grid:         brackets.BuildGrid(collection),
		Adjustments:  collection.Adjustments(),
		Valid:        true,
	}
	if err := collection.ValidBrackets(); err != nil {
		var invErr *brackets.InvariantError
		if !errors.As(err, &invErr) {
			return nil, err
		}
		result.Valid = false
		result.Problem = invErr.Reason
	}
	return result, nil
}

// PublishGrid recomputes the grid and sends it to the bracket's room.
// Failures are logged; entry changes never fail because of a broadcast.
func (s *bracketService) PublishGrid(ctx context.Context, brktID string) {
	if s.broadcaster == nil {
		return
	}

	message := brackets.WebSocketMessage{Type: brackets.MessageGridUpdated, RoomID: brackets.RoomForBrkt(brktID)}
	result, err := s.Grid(ctx, brktID, nil)
	switch {
	case err == nil:
		message.Payload = result
	case errors.Is(err, brackets.ErrInsufficientData), errors.Is(err, brackets.ErrUnsatisfiable):
		message.Payload = map[string]string{"brkt_id": brktID, "problem": err.Error()}
	default:
		s.logger.Error("failed to compute grid for broadcast", slog.String("brkt_id", brktID), slog.Any("error", err))
		return
	}
	s.broadcaster.BroadcastToRoom(message.RoomID, message)
}

// shuffle reorders a full bracket's seeds; one-bye brackets keep theirs.
func (s *bracketService) shuffle(in *brackets.Instance) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	in.Shuffle(s.rng)
}

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Lock draws the brackets inside one transaction that holds the bracket row
// for update, so no entry can change between reading entries and committing.
func (s *bracketService) Lock(ctx context.Context, brktID string) (result *LockedResult, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.String("brkt_id", brktID), slog.Any("error", rbErr))
			}
		}
	}()

	brkt, err := s.brktRepo.GetForUpdate(ctx, tx, brktID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket %s: %w", brktID, mapRepoError(err))
	}
	if brkt.Locked {
		return nil, ErrBracketLocked
	}
	entries, err := s.entryRepo.ListByBrkt(ctx, tx, brktID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for bracket %s: %w", brktID, err)
	}

	collection, err := s.assign(brkt, entries)
	if err != nil {
		return nil, err
	}
	if err = collection.ValidBrackets(); err != nil {
		return nil, fmt.Errorf("cannot lock bracket %s: %w", brktID, err)
	}

	oneBrkts := make([]models.OneBrkt, 0, len(collection.Instances()))
	for i, in := range collection.Instances() {
		s.shuffle(in)
		ob := models.OneBrkt{ID: newID("obk_"), BrktID: brktID, BIndex: i}
		for seed, playerID := range in.Occupants() {
			ob.Seeds = append(ob.Seeds, models.BrktSeed{OneBrktID: ob.ID, SeedIndex: seed, PlayerID: playerID})
		}
		oneBrkts = append(oneBrkts, ob)
	}

	if err = s.oneBrktRepo.ReplaceForBrkt(ctx, tx, brktID, oneBrkts); err != nil {
		return nil, fmt.Errorf("failed to save brackets for %s: %w", brktID, err)
	}
	if err = s.brktRepo.SetLocked(ctx, tx, brktID, true); err != nil {
		return nil, fmt.Errorf("failed to lock bracket %s: %w", brktID, mapRepoError(err))
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Info("brackets locked",
		slog.String("brkt_id", brktID),
		slog.Int("full", collection.FullCount()),
		slog.Int("one_bye", collection.OneByeCount()))

	result, err = s.lockedResult(ctx, brkt, oneBrkts)
	if err != nil {
		return nil, err
	}
	result.ExportURL = s.export(ctx, result)

	if s.broadcaster != nil {
		room := brackets.RoomForBrkt(brktID)
		s.broadcaster.BroadcastToRoom(room, brackets.WebSocketMessage{Type: brackets.MessageBracketsLocked, Payload: result, RoomID: room})
	}
	return result, nil
}

func (s *bracketService) Unlock(ctx context.Context, brktID string) (err error) {
	brkt, err := s.brktRepo.GetByID(ctx, brktID)
	if err != nil {
		return mapRepoError(err)
	}
	if !brkt.Locked {
		return ErrBracketNotLocked
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.oneBrktRepo.ReplaceForBrkt(ctx, tx, brktID, nil); err != nil {
		return fmt.Errorf("failed to clear brackets for %s: %w", brktID, err)
	}
	if err = s.brktRepo.SetLocked(ctx, tx, brktID, false); err != nil {
		return fmt.Errorf("failed to unlock bracket %s: %w", brktID, mapRepoError(err))
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("brackets unlocked", slog.String("brkt_id", brktID))
	if s.uploader != nil {
		if delErr := s.uploader.Delete(ctx, exportKey(brktID)); delErr != nil {
			s.logger.Warn("failed to delete seed sheet", slog.String("brkt_id", brktID), slog.Any("error", delErr))
		}
	}
	s.PublishGrid(ctx, brktID)
	return nil
}

func (s *bracketService) Locked(ctx context.Context, brktID string) (*LockedResult, error) {
	brkt, err := s.brktRepo.GetByID(ctx, brktID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !brkt.Locked {
		return nil, ErrBracketNotLocked
	}

	oneBrkts, err := s.oneBrktRepo.ListByBrkt(ctx, brktID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brackets for %s: %w", brktID, err)
	}
	return s.lockedResult(ctx, brkt, oneBrkts)
}

func (s *bracketService) lockedResult(ctx context.Context, brkt *models.Brkt, oneBrkts []models.OneBrkt) (*LockedResult, error) {
	restored := make([]brackets.RestoredInstance, 0, len(oneBrkts))
	for _, ob := range oneBrkts {
		players := make([]string, 0, len(ob.Seeds))
		for _, seed := range ob.Seeds {
			players = append(players, seed.PlayerID)
		}
		restored = append(restored, brackets.RestoredInstance{ID: ob.ID, Occupants: players})
	}

	collection, err := brackets.RestoreCollection(definitionOf(brkt), s.maxRequested, restored)
	if err != nil {
		return nil, fmt.Errorf("bracket %s: %w", brkt.ID, err)
	}

	result := &LockedResult{BrktID: brkt.ID, Counts: collection.Counts()}
	for i, in := range collection.Instances() {
		matches, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{Instance: in})
		if err != nil {
			return nil, fmt.Errorf("bracket %s: %w", in.ID(), err)
		}
		result.Brackets = append(result.Brackets, LockedBracket{
			ID:       in.ID(),
			BIndex:   oneBrkts[i].BIndex,
			Players:  in.Occupants(),
			Matches:  matches,
			IsOneBye: !in.IsFull(),
		})
	}
	return result, nil
}

func exportKey(brktID string) string {
	return fmt.Sprintf("brackets/%s/seeds.json", brktID)
}

// export uploads the seed sheet and returns its public URL, or "" when
// export is disabled or fails.
func (s *bracketService) export(ctx context.Context, result *LockedResult) string {
	if s.uploader == nil {
		return ""
	}
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode seed sheet", slog.String("brkt_id", result.BrktID), slog.Any("error", err))
		return ""
	}
	uploaded, err := s.uploader.Upload(ctx, exportKey(result.BrktID), "application/json", bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("seed sheet export failed", slog.String("brkt_id", result.BrktID), slog.Any("error", err))
		return ""
	}
	return uploaded.Location
}
