package usecase

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etarang/garba-desk/internal/entity"
	"github.com/etarang/garba-desk/internal/infra/mockstore"
	"github.com/etarang/garba-desk/internal/rowdata"
)

var uniqueIDPattern = regexp.MustCompile(`^ET-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{8}$`)

func TestAssignMissingFillsOnlyBlanks(t *testing.T) {
	store := mockstore.New(
		entity.Entry{RegistrationNumber: "R1", UniqueID: "ET-KEEPKEEP"},
		entity.Entry{RegistrationNumber: "R2"},
		entity.Entry{RegistrationNumber: "R3", UniqueID: "   "}, // blank after trimming
		entity.Entry{RegistrationNumber: "R4"},
	)
	assigner := NewIDAssigner(store)

	count, err := assigner.AssignMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	snap, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ET-KEEPKEEP", snap.Entries[0].UniqueID, "existing id must never be overwritten")
	for _, e := range snap.Entries[1:] {
		assert.Regexp(t, uniqueIDPattern, e.UniqueID)
	}
}

func TestAssignMissingIsIdempotent(t *testing.T) {
	store := mockstore.New(
		entity.Entry{RegistrationNumber: "R1"},
		entity.Entry{RegistrationNumber: "R2"},
	)
	assigner := NewIDAssigner(store)

	first, err := assigner.AssignMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := assigner.AssignMissing(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second)
}

type noIDColumnStore struct{ *mockstore.Store }

func (s noIDColumnStore) ReadAll(ctx context.Context) (*rowdata.Snapshot, error) {
	snap, err := s.Store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	delete(snap.Columns, rowdata.ColUniqueID)
	return snap, nil
}

func TestAssignMissingRequiresUniqueIDColumn(t *testing.T) {
	assigner := NewIDAssigner(noIDColumnStore{mockstore.New()})

	_, err := assigner.AssignMissing(context.Background())
	require.Error(t, err)
	assert.True(t, IsDomainError(err))
	assert.Contains(t, err.Error(), "Unique ID")
}

func TestGenerateUniqueIDProperties(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := generateUniqueID()
		assert.Regexp(t, uniqueIDPattern, id)
		seen[id] = true
	}
	// Not a collision guarantee, but 1000 draws from 32^8 should not repeat.
	assert.Len(t, seen, 1000)
}
