package tutor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/internal/repository/memory"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	clk := clock.NewMock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewService(store.Tutors(), store.Animals(), clk), store
}

func arthur() *model.CreateTutorRequest {
	return &model.CreateTutorRequest{
		Name:    "Arthur",
		CPF:     "123",
		Email:   "arthur@email.com",
		Phone:   "9999",
		Address: "BH",
	}
}

func TestCreateTutor(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	tutor, err := svc.CreateTutor(ctx, arthur())
	require.NoError(t, err)
	assert.NotZero(t, tutor.ID)
	assert.Equal(t, "Arthur", tutor.Name)

	dupCPF := arthur()
	dupCPF.Email = "other@email.com"
	_, err = svc.CreateTutor(ctx, dupCPF)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, repository.MsgTutorCPFTaken, appErr.Message)

	dupEmail := arthur()
	dupEmail.CPF = "456"
	_, err = svc.CreateTutor(ctx, dupEmail)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestUpdateTutorMergesPresentFields(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	tutor, err := svc.CreateTutor(ctx, arthur())
	require.NoError(t, err)

	phone := "8888"
	updated, err := svc.UpdateTutor(ctx, tutor.ID, &model.UpdateTutorRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "8888", updated.Phone)
	assert.Equal(t, "Arthur", updated.Name)
	assert.Equal(t, "BH", updated.Address)

	_, err = svc.UpdateTutor(ctx, 999, &model.UpdateTutorRequest{Phone: &phone})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteTutor(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	tutor, err := svc.CreateTutor(ctx, arthur())
	require.NoError(t, err)

	animal := &model.Animal{Name: "Rex", Species: "dog", WeightKg: 10, TutorID: tutor.ID}
	require.NoError(t, store.Animals().Create(ctx, animal))

	err = svc.DeleteTutor(ctx, tutor.ID)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, repository.MsgTutorHasAnimals, appErr.Message)

	require.NoError(t, store.Animals().Delete(ctx, animal.ID))
	require.NoError(t, svc.DeleteTutor(ctx, tutor.ID))

	_, err = svc.GetTutor(ctx, tutor.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(svc.DeleteTutor(ctx, tutor.ID), apperrors.ErrNotFound))
}

func TestGetTutorWithAnimals(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	tutor, err := svc.CreateTutor(ctx, arthur())
	require.NoError(t, err)

	empty, err := svc.GetTutorWithAnimals(ctx, tutor.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.Animals)
	assert.Empty(t, empty.Animals)

	for _, name := range []string{"Rex", "Mia"} {
		require.NoError(t, store.Animals().Create(ctx, &model.Animal{Name: name, Species: "dog", WeightKg: 3, TutorID: tutor.ID}))
	}

	full, err := svc.GetTutorWithAnimals(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, full.Animals, 2)
	assert.Equal(t, "Rex", full.Animals[0].Name)
	assert.Equal(t, "Mia", full.Animals[1].Name)

	list, err := svc.ListTutors(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
