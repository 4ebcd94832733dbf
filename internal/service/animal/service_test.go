package animal

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

func setup(t *testing.T) (*Service, *memory.Store, *model.Tutor) {
	t.Helper()
	store := memory.NewStore()
	tutor := &model.Tutor{Name: "Arthur", CPF: "123", Email: "arthur@email.com"}
	require.NoError(t, store.Tutors().Create(context.Background(), tutor))
	clk := clock.NewMock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewService(store.Animals(), store.Tutors(), clk), store, tutor
}

func request(tutorID int64, weight float64) *model.CreateAnimalRequest {
	return &model.CreateAnimalRequest{
		Name:      "Rex",
		Species:   "dog",
		Breed:     "mutt",
		BirthDate: model.NewDate(2021, 6, 1),
		WeightKg:  weight,
		TutorID:   tutorID,
	}
}

func TestCreateAnimalWeight(t *testing.T) {
	for _, w := range []float64{-10, -0.01, 0} {
		svc, _, tutor := setup(t)
		_, err := svc.CreateAnimal(context.Background(), request(tutor.ID, w))
		appErr, ok := apperrors.As(err)
		require.True(t, ok, "weight %v", w)
		assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
		assert.Equal(t, "The animal weight must be positive.", appErr.Message)
	}

	for _, w := range []float64{0.01, 4.5, 80} {
		svc, _, tutor := setup(t)
		a, err := svc.CreateAnimal(context.Background(), request(tutor.ID, w))
		require.NoError(t, err, "weight %v", w)
		assert.Equal(t, w, a.WeightKg)
	}
}

func TestCreateAnimalReferencesTutor(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.CreateAnimal(context.Background(), request(999, 4.5))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCreateAnimalRequiresBirthDate(t *testing.T) {
	svc, _, tutor := setup(t)
	req := request(tutor.ID, 4.5)
	req.BirthDate = model.Date{}
	_, err := svc.CreateAnimal(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestUpdateAnimal(t *testing.T) {
	svc, _, tutor := setup(t)
	ctx := context.Background()

	a, err := svc.CreateAnimal(ctx, request(tutor.ID, 4.5))
	require.NoError(t, err)

	for _, w := range []float64{0, -1} {
		weight := w
		_, err = svc.UpdateAnimal(ctx, a.ID, &model.UpdateAnimalRequest{WeightKg: &weight})
		assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	}

	weight := 5.2
	updated, err := svc.UpdateAnimal(ctx, a.ID, &model.UpdateAnimalRequest{WeightKg: &weight})
	require.NoError(t, err)
	assert.Equal(t, 5.2, updated.WeightKg)
	assert.Equal(t, "Rex", updated.Name)
	assert.Equal(t, "2021-06-01", updated.BirthDate.String())

	missingTutor := int64(999)
	_, err = svc.UpdateAnimal(ctx, a.ID, &model.UpdateAnimalRequest{TutorID: &missingTutor})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = svc.UpdateAnimal(ctx, 999, &model.UpdateAnimalRequest{WeightKg: &weight})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteAnimal(t *testing.T) {
	svc, store, tutor := setup(t)
	ctx := context.Background()

	a, err := svc.CreateAnimal(ctx, request(tutor.ID, 4.5))
	require.NoError(t, err)

	vet := &model.User{Name: "Vet", Email: "vet@clinic.test", Role: model.RoleVet, IsActive: true}
	require.NoError(t, store.Users().Create(ctx, vet))
	apt := &model.Appointment{AnimalID: a.ID, VetID: vet.ID, ScheduledAt: time.Now(), Reason: "x", Status: model.AppointmentStatusScheduled, CreatedBy: vet.ID}
	require.NoError(t, store.Appointments().Create(ctx, apt))

	err = svc.DeleteAnimal(ctx, a.ID)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, repository.MsgAnimalHasAppointment, appErr.Message)

	require.NoError(t, store.Appointments().Delete(ctx, apt.ID))
	require.NoError(t, svc.DeleteAnimal(ctx, a.ID))

	_, err = svc.GetAnimal(ctx, a.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(svc.DeleteAnimal(ctx, a.ID), apperrors.ErrNotFound))
}
