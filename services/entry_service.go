package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/easoftwareGit/bowl-tmnts-2-sub002/models"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/repositories"
)

type UpsertEntryInput struct {
	PlayerID    string `json:"player_id"`
	NumBrackets int    `json:"num_brackets"`
}

type EntryService interface {
	ListEntries(ctx context.Context, brktID string) ([]models.BrktEntry, error)
	// UpsertEntry creates or changes a player's request. NumBrackets == 0
	// removes the entry and returns (nil, nil).
	UpsertEntry(ctx context.Context, brktID string, input UpsertEntryInput) (*models.BrktEntry, error)
	DeleteEntry(ctx context.Context, brktID, playerID string) error
}

type entryService struct {
	brktRepo     repositories.BrktRepository
	entryRepo    repositories.BrktEntryRepository
	publisher    GridPublisher
	logger       *slog.Logger
	maxRequested int
	now          func() time.Time
}

// GridPublisher is satisfied by BracketService.
type GridPublisher interface {
	PublishGrid(ctx context.Context, brktID string)
}

func NewEntryService(
	brktRepo repositories.BrktRepository,
	entryRepo repositories.BrktEntryRepository,
	publisher GridPublisher,
	logger *slog.Logger,
	maxBracketsPerEntry int,
) EntryService {
	return &entryService{
		brktRepo:     brktRepo,
		entryRepo:    entryRepo,
		publisher:    publisher,
		logger:       logger,
		maxRequested: maxBracketsPerEntry,
		now:          time.Now,
	}
}

func (s *entryService) ListEntries(ctx context.Context, brktID string) ([]models.BrktEntry, error) {
	if _, err := s.brktRepo.GetByID(ctx, brktID); err != nil {
		return nil, mapRepoError(err)
	}
	entries, err := s.entryRepo.ListByBrkt(ctx, nil, brktID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// requireUnlocked returns ErrBracketLocked once brackets have been drawn.
// The repository repeats the check under a row lock when it writes.
func (s *entryService) requireUnlocked(ctx context.Context, brktID string) error {
	brkt, err := s.brktRepo.GetByID(ctx, brktID)
	if err != nil {
		return mapRepoError(err)
	}
	if brkt.Locked {
		return ErrBracketLocked
	}
	return nil
}

func (s *entryService) UpsertEntry(ctx context.Context, brktID string, input UpsertEntryInput) (*models.BrktEntry, error) {
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return nil, fmt.Errorf("%w: player_id is required", ErrValidationFailed)
	}
	if input.NumBrackets < 0 {
		return nil, fmt.Errorf("%w: num_brackets cannot be negative", ErrValidationFailed)
	}
	if s.maxRequested > 0 && input.NumBrackets > s.maxRequested {
		return nil, fmt.Errorf("%w: num_brackets cannot exceed %d", ErrValidationFailed, s.maxRequested)
	}

	if err := s.requireUnlocked(ctx, brktID); err != nil {
		return nil, err
	}

	if input.NumBrackets == 0 {
		err := s.entryRepo.Delete(ctx, brktID, input.PlayerID)
		if err != nil && !errors.Is(err, repositories.ErrBrktEntryNotFound) {
			return nil, fmt.Errorf("failed to remove entry: %w", mapRepoError(err))
		}
		s.publisher.PublishGrid(ctx, brktID)
		return nil, nil
	}

	entry := &models.BrktEntry{
		ID:          newID("ben_"),
		BrktID:      brktID,
		PlayerID:    input.PlayerID,
		NumBrackets: input.NumBrackets,
		TimeStamp:   s.now().UnixMilli(),
	}
	if err := s.entryRepo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", mapRepoError(err))
	}
	s.logger.Debug("bracket entry saved",
		slog.String("brkt_id", brktID),
		slog.String("player_id", entry.PlayerID),
		slog.Int("num_brackets", entry.NumBrackets))

	s.publisher.PublishGrid(ctx, brktID)
	return entry, nil
}

func (s *entryService) DeleteEntry(ctx context.Context, brktID, playerID string) error {
	if strings.TrimSpace(playerID) == "" {
		return fmt.Errorf("%w: player_id is required", ErrValidationFailed)
	}
	if err := s.requireUnlocked(ctx, brktID); err != nil {
		return err
	}
	if err := s.entryRepo.Delete(ctx, brktID, playerID); err != nil {
		return mapRepoError(err)
	}
	s.publisher.PublishGrid(ctx, brktID)
	return nil
}
