package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/brackets"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/models"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/repositories"
	"github.com/easoftwareGit/bowl-tmnts-2-sub002/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBrktID = "brk_1"

func testBrkt(locked bool) *models.Brkt {
	return &models.Brkt{ID: testBrktID, Start: 1, Games: 3, PlayersPerMatch: 2, Locked: locked}
}

func brktEntries(n int) []models.BrktEntry {
	out := make([]models.BrktEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.BrktEntry{
			ID:          fmt.Sprintf("ben_%02d", i),
			BrktID:      testBrktID,
			PlayerID:    fmt.Sprintf("ply_%02d", i),
			NumBrackets: 1,
			TimeStamp:   int64(100 + i),
		})
	}
	return out
}

type bracketFixture struct {
	brktRepo    *brktRepoMock
	entryRepo   *entryRepoMock
	oneBrktRepo *oneBrktRepoMock
	uploader    *uploaderMock
	broadcaster *broadcasterStub
	sqlMock     sqlmock.Sqlmock
	service     BracketService
}

func newBracketFixture(t *testing.T, withUploader bool) *bracketFixture {
	t.Helper()
	db, sm, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &bracketFixture{
		brktRepo:    &brktRepoMock{},
		entryRepo:   &entryRepoMock{},
		oneBrktRepo: &oneBrktRepoMock{},
		broadcaster: &broadcasterStub{},
		sqlMock:     sm,
	}
	var uploader storage.FileUploader
	if withUploader {
		f.uploader = &uploaderMock{}
		uploader = f.uploader
	}
	f.service = NewBracketService(db, f.brktRepo, f.entryRepo, f.oneBrktRepo, uploader, f.broadcaster, discardLogger(),
		BracketServiceConfig{MaxBracketsPerEntry: 999, Rand: rand.New(rand.NewSource(7))})
	return f
}

func (f *bracketFixture) assertExpectations(t *testing.T) {
	f.brktRepo.AssertExpectations(t)
	f.entryRepo.AssertExpectations(t)
	f.oneBrktRepo.AssertExpectations(t)
	if f.uploader != nil {
		f.uploader.AssertExpectations(t)
	}
	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestBracketService_Grid(t *testing.T) {
	f := newBracketFixture(t, false)
	f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(false), nil)
	f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(8), nil)

	result, err := f.service.Grid(context.Background(), testBrktID, nil)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Problem)
	assert.Equal(t, brackets.Counts{Full: 1, OneBye: 0}, result.Counts)
	assert.Equal(t, result.Counts, result.Built)
	assert.Equal(t, 8, result.TotalEntries)
	assert.Equal(t, 1, result.Grid.Brackets)
	assert.Equal(t, 0, result.Grid.ToFillFull)
	assert.Equal(t, brackets.Definition{PlayersPerMatch: 2, Games: 3}, result.Definition)
	f.assertExpectations(t)
}

func TestBracketService_GridReportsShortFill(t *testing.T) {
	f := newBracketFixture(t, false)
	brkt := testBrkt(false)
	brkt.Games = 2
	f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(brkt, nil)
	var entries []models.BrktEntry
	for i, n := range []int{3, 2, 2, 2, 1} {
		entries = append(entries, models.BrktEntry{
			ID:          fmt.Sprintf("ben_%d", i),
			BrktID:      testBrktID,
			PlayerID:    fmt.Sprintf("ply_%d", i),
			NumBrackets: n,
			TimeStamp:   int64(100 + i),
		})
	}
	f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(entries, nil)

	result, err := f.service.Grid(context.Background(), testBrktID, nil)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Equal(t, brackets.Counts{Full: 1, OneBye: 2}, result.Counts)
	assert.Equal(t, brackets.Counts{Full: 2}, result.Built)
	assert.Equal(t, 3, result.Grid.Brackets)
	assert.Equal(t, 10, result.TotalEntries)
	f.assertExpectations(t)
}

func TestBracketService_GridWithout(t *testing.T) {
	f := newBracketFixture(t, false)
	f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(false), nil)
	f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(8), nil)

	t.Run("one missing player leaves a one-bye bracket", func(t *testing.T) {
		result, err := f.service.Grid(context.Background(), testBrktID, []string{"ply_03"})
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, 7, result.TotalEntries)
		assert.Equal(t, brackets.Counts{Full: 1}, result.Counts)
		assert.Equal(t, brackets.Counts{OneBye: 1}, result.Built)
		assert.Equal(t, 1, result.Grid.ToFillFull)
		assert.Equal(t, 0, result.Grid.ToFillOneBye)
	})

	t.Run("two missing players break the bracket", func(t *testing.T) {
		result, err := f.service.Grid(context.Background(), testBrktID, []string{"ply_03", "ply_04"})
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.NotEmpty(t, result.Problem)
		assert.Equal(t, 2, result.Grid.ToFillFull)
	})
}

func TestBracketService_GridErrors(t *testing.T) {
	t.Run("unknown bracket", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(nil, repositories.ErrBrktNotFound)
		f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return([]models.BrktEntry{}, nil).Maybe()

		_, err := f.service.Grid(context.Background(), testBrktID, nil)
		assert.ErrorIs(t, err, ErrBrktNotFound)
	})

	t.Run("too few entries", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(false), nil)
		f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(5), nil)

		_, err := f.service.Grid(context.Background(), testBrktID, nil)
		assert.ErrorIs(t, err, brackets.ErrInsufficientData)
	})

	t.Run("entries failure", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(false), nil).Maybe()
		f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(nil, errors.New("connection reset"))

		_, err := f.service.Grid(context.Background(), testBrktID, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestBracketService_PublishGrid(t *testing.T) {
	t.Run("grid payload", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(false), nil)
		f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(8), nil)

		f.service.PublishGrid(context.Background(), testBrktID)

		msgs := f.broadcaster.all()
		require.Len(t, msgs, 1)
		assert.Equal(t, "brkt_"+testBrktID, msgs[0].Room)
		msg, ok := msgs[0].Message.(brackets.WebSocketMessage)
		require.True(t, ok)
		assert.Equal(t, brackets.MessageGridUpdated, msg.Type)
		grid, ok := msg.Payload.(*GridResult)
		require.True(t, ok)
		assert.Equal(t, 1, grid.Counts.Full)
	})

	t.Run("problem payload when entries cannot fill a bracket", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(false), nil)
		f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(3), nil)

		f.service.PublishGrid(context.Background(), testBrktID)

		msgs := f.broadcaster.all()
		require.Len(t, msgs, 1)
		msg := msgs[0].Message.(brackets.WebSocketMessage)
		payload, ok := msg.Payload.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, testBrktID, payload["brkt_id"])
		assert.NotEmpty(t, payload["problem"])
	})

	t.Run("nothing sent on storage failure", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(nil, errors.New("db down"))
		f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(8), nil).Maybe()

		f.service.PublishGrid(context.Background(), testBrktID)
		assert.Empty(t, f.broadcaster.all())
	})
}

func TestBracketService_Lock(t *testing.T) {
	f := newBracketFixture(t, true)
	f.sqlMock.ExpectBegin()
	f.brktRepo.On("GetForUpdate", mock.Anything, testBrktID).Return(testBrkt(false), nil)
	f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(8), nil)
	f.oneBrktRepo.On("ReplaceForBrkt", mock.Anything, mock.Anything, testBrktID, mock.MatchedBy(func(obs []models.OneBrkt) bool {
		if len(obs) != 1 || len(obs[0].Seeds) != 8 || obs[0].BIndex != 0 {
			return false
		}
		for i, seed := range obs[0].Seeds {
			if seed.SeedIndex != i || seed.OneBrktID != obs[0].ID {
				return false
			}
		}
		return obs[0].BrktID == testBrktID
	})).Return(nil)
	f.brktRepo.On("SetLocked", mock.Anything, mock.Anything, testBrktID, true).Return(nil)
	f.sqlMock.ExpectCommit()
	f.uploader.On("Upload", mock.Anything, "brackets/brk_1/seeds.json", "application/json", mock.Anything).
		Return(&storage.UploadResult{Key: "brackets/brk_1/seeds.json", Location: "https://cdn.example.com/brackets/brk_1/seeds.json"}, nil)

	result, err := f.service.Lock(context.Background(), testBrktID)
	require.NoError(t, err)

	assert.Equal(t, brackets.Counts{Full: 1}, result.Counts)
	assert.Equal(t, "https://cdn.example.com/brackets/brk_1/seeds.json", result.ExportURL)
	require.Len(t, result.Brackets, 1)
	bracket := result.Brackets[0]
	assert.False(t, bracket.IsOneBye)
	assert.Len(t, bracket.Matches, 4)

	want := make([]string, 0, 8)
	for _, e := range brktEntries(8) {
		want = append(want, e.PlayerID)
	}
	assert.ElementsMatch(t, want, bracket.Players)

	msgs := f.broadcaster.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, brackets.MessageBracketsLocked, msgs[0].Message.(brackets.WebSocketMessage).Type)
	f.assertExpectations(t)
}

func TestBracketService_LockExportFailureIsNotFatal(t *testing.T) {
	f := newBracketFixture(t, true)
	f.sqlMock.ExpectBegin()
	f.brktRepo.On("GetForUpdate", mock.Anything, testBrktID).Return(testBrkt(false), nil)
	f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(8), nil)
	f.oneBrktRepo.On("ReplaceForBrkt", mock.Anything, mock.Anything, testBrktID, mock.Anything).Return(nil)
	f.brktRepo.On("SetLocked", mock.Anything, mock.Anything, testBrktID, true).Return(nil)
	f.sqlMock.ExpectCommit()
	f.uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("bucket gone"))

	result, err := f.service.Lock(context.Background(), testBrktID)
	require.NoError(t, err)
	assert.Empty(t, result.ExportURL)
	f.assertExpectations(t)
}

func TestBracketService_LockErrors(t *testing.T) {
	t.Run("already locked", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.sqlMock.ExpectBegin()
		f.brktRepo.On("GetForUpdate", mock.Anything, testBrktID).Return(testBrkt(true), nil)
		f.sqlMock.ExpectRollback()

		_, err := f.service.Lock(context.Background(), testBrktID)
		assert.ErrorIs(t, err, ErrBracketLocked)
		assert.Empty(t, f.broadcaster.all())
		f.entryRepo.AssertNotCalled(t, "ListByBrkt", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("invalid brackets are not locked", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.sqlMock.ExpectBegin()
		f.brktRepo.On("GetForUpdate", mock.Anything, testBrktID).Return(testBrkt(false), nil)
		f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(4), nil)
		f.sqlMock.ExpectRollback()

		_, err := f.service.Lock(context.Background(), testBrktID)
		assert.ErrorIs(t, err, brackets.ErrInsufficientData)
		f.oneBrktRepo.AssertNotCalled(t, "ReplaceForBrkt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("rollback when the lock flag cannot be set", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.sqlMock.ExpectBegin()
		f.brktRepo.On("GetForUpdate", mock.Anything, testBrktID).Return(testBrkt(false), nil)
		f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(8), nil)
		f.oneBrktRepo.On("ReplaceForBrkt", mock.Anything, mock.Anything, testBrktID, mock.Anything).Return(nil)
		f.brktRepo.On("SetLocked", mock.Anything, mock.Anything, testBrktID, true).Return(repositories.ErrBrktNotFound)
		f.sqlMock.ExpectRollback()

		_, err := f.service.Lock(context.Background(), testBrktID)
		assert.ErrorIs(t, err, ErrBrktNotFound)
		assert.Empty(t, f.broadcaster.all())
		f.assertExpectations(t)
	})

	t.Run("unknown bracket", func(t *testing.T) {
		f := newBracketFixture(t, false)
		f.sqlMock.ExpectBegin()
		f.brktRepo.On("GetForUpdate", mock.Anything, "missing").Return(nil, repositories.ErrBrktNotFound)
		f.sqlMock.ExpectRollback()

		_, err := f.service.Lock(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrBrktNotFound)
		f.assertExpectations(t)
	})
}

func seededOneBrkt(id string, bindex int, players ...string) models.OneBrkt {
	ob := models.OneBrkt{ID: id, BrktID: testBrktID, BIndex: bindex}
	for i, p := range players {
		ob.Seeds = append(ob.Seeds, models.BrktSeed{OneBrktID: id, SeedIndex: i, PlayerID: p})
	}
	return ob
}

func TestBracketService_Locked(t *testing.T) {
	f := newBracketFixture(t, false)
	f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(true), nil)
	f.oneBrktRepo.On("ListByBrkt", mock.Anything, testBrktID).Return([]models.OneBrkt{
		seededOneBrkt("obk_a", 0, "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"),
		seededOneBrkt("obk_b", 1, "p8", "p7", "p6", "p5", "p4", "p3", "p2"),
	}, nil)

	result, err := f.service.Locked(context.Background(), testBrktID)
	require.NoError(t, err)

	assert.Equal(t, brackets.Counts{Full: 1, OneBye: 1}, result.Counts)
	require.Len(t, result.Brackets, 2)

	full := result.Brackets[0]
	assert.Equal(t, "obk_a", full.ID)
	assert.False(t, full.IsOneBye)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}, full.Players)
	require.Len(t, full.Matches, 4)
	assert.Equal(t, []string{"p1", "p2"}, full.Matches[0].PlayerIDs)

	oneBye := result.Brackets[1]
	assert.True(t, oneBye.IsOneBye)
	assert.Equal(t, 1, oneBye.BIndex)
	require.Len(t, oneBye.Matches, 4)
	last := oneBye.Matches[3]
	assert.True(t, last.IsBye)
	assert.Equal(t, "p2", last.ByePlayerID)
	f.assertExpectations(t)
}

func TestBracketService_LockedRequiresLock(t *testing.T) {
	f := newBracketFixture(t, false)
	f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(false), nil)

	_, err := f.service.Locked(context.Background(), testBrktID)
	assert.ErrorIs(t, err, ErrBracketNotLocked)
}

func TestBracketService_Unlock(t *testing.T) {
	f := newBracketFixture(t, true)
	f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(true), nil)
	f.entryRepo.On("ListByBrkt", mock.Anything, testBrktID).Return(brktEntries(8), nil)
	f.sqlMock.ExpectBegin()
	f.oneBrktRepo.On("ReplaceForBrkt", mock.Anything, mock.Anything, testBrktID, mock.Anything).Return(nil)
	f.brktRepo.On("SetLocked", mock.Anything, mock.Anything, testBrktID, false).Return(nil)
	f.sqlMock.ExpectCommit()
	f.uploader.On("Delete", mock.Anything, "brackets/brk_1/seeds.json").Return(nil)

	require.NoError(t, f.service.Unlock(context.Background(), testBrktID))

	msgs := f.broadcaster.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, brackets.MessageGridUpdated, msgs[0].Message.(brackets.WebSocketMessage).Type)
	f.assertExpectations(t)
}

func TestBracketService_UnlockRequiresLock(t *testing.T) {
	f := newBracketFixture(t, false)
	f.brktRepo.On("GetByID", mock.Anything, testBrktID).Return(testBrkt(false), nil)

	err := f.service.Unlock(context.Background(), testBrktID)
	assert.ErrorIs(t, err, ErrBracketNotLocked)
}
