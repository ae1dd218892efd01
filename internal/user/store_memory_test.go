package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	p := NewPatient("ana@example.com", "hash", "Ana", "3174000000000001", "Jl. Margonda", "0812", "asthma")
	require.NoError(t, store.Save(ctx, p))
	require.NotZero(t, p.ID)

	got, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, KindPatient, got.Kind)
	require.NotNil(t, got.Patient)
	assert.Equal(t, "asthma", got.Patient.MedicalHistory)

	byEmail, err := store.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byEmail.ID)
}

func TestInMemoryStore_FindMissing(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore_Uniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	p := NewPatient("ana@example.com", "hash", "Ana", "3174000000000001", "", "", "")
	require.NoError(t, store.Save(ctx, p))

	exists, err := store.ExistsByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsByNIK(ctx, "3174000000000001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsByNIK(ctx, "0000000000000000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInMemoryStore_SearchCareGivers(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.Save(ctx, NewCareGiver("dr.budi@example.com", "h", "Budi", "1", "", "", "Cardiology", "RS A")))
	require.NoError(t, store.Save(ctx, NewCareGiver("dr.citra@example.com", "h", "Citra", "2", "", "", "Dermatology", "RS B")))
	require.NoError(t, store.Save(ctx, NewPatient("ana@example.com", "h", "Ana", "3", "", "", "")))

	all, err := store.ListCareGivers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := store.SearchCareGivers(ctx, "bud", "")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Budi", byName[0].Name)

	bySpec, err := store.SearchCareGivers(ctx, "", "derma")
	require.NoError(t, err)
	require.Len(t, bySpec, 1)
	assert.Equal(t, "Citra", bySpec[0].Name)

	both, err := store.SearchCareGivers(ctx, "citra", "cardio")
	require.NoError(t, err)
	assert.Empty(t, both)
}

func TestInMemoryStore_UpdateCareGiverRating(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	cg := NewCareGiver("dr.budi@example.com", "h", "Budi", "1", "", "", "Cardiology", "RS A")
	require.NoError(t, store.Save(ctx, cg))

	require.NoError(t, store.UpdateCareGiverRating(ctx, cg.ID, 4.5, 12))

	got, err := store.FindByID(ctx, cg.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.CareGiver.AverageRating)
	assert.Equal(t, 12, got.CareGiver.RatingCount)

	p := NewPatient("ana@example.com", "h", "Ana", "3", "", "", "")
	require.NoError(t, store.Save(ctx, p))
	assert.ErrorIs(t, store.UpdateCareGiverRating(ctx, p.ID, 5, 1), ErrNotFound)
}

func TestInMemoryStore_DeleteIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	p := NewPatient("ana@example.com", "h", "Ana", "1", "", "", "flu")
	require.NoError(t, store.Save(ctx, p))

	// Mutating the caller's copy must not leak into the store.
	p.Patient.MedicalHistory = "changed outside"
	got, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "flu", got.Patient.MedicalHistory)

	require.NoError(t, store.Delete(ctx, p.ID))
	_, err = store.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, p.ID), ErrNotFound)
}
