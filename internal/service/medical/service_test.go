package medical

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/internal/repository/memory"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
	"github.com/jwalitptl/vetclinic-api/pkg/messaging"
	"github.com/jwalitptl/vetclinic-api/pkg/metrics"
)

var epoch = time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc         *Service
	store       *memory.Store
	clock       *clock.Mock
	events      *messaging.Recorder
	metrics     *metrics.Metrics
	vet         *model.Actor
	otherVet    *model.Actor
	appointment *model.Appointment
}

func addUser(t *testing.T, store *memory.Store, role model.Role) *model.Actor {
	t.Helper()
	u := &model.User{Name: gofakeit.Name(), Email: gofakeit.Email(), PasswordHash: "x", Role: role, IsActive: true}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u.Actor()
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	tutor := &model.Tutor{Name: gofakeit.Name(), CPF: gofakeit.SSN(), Email: gofakeit.Email()}
	require.NoError(t, store.Tutors().Create(ctx, tutor))
	animal := &model.Animal{Name: gofakeit.PetName(), Species: "cat", WeightKg: 4, TutorID: tutor.ID}
	require.NoError(t, store.Animals().Create(ctx, animal))

	vet := addUser(t, store, model.RoleVet)
	reception := addUser(t, store, model.RoleReceptionist)

	apt := &model.Appointment{
		AnimalID:    animal.ID,
		VetID:       vet.ID,
		ScheduledAt: epoch.Add(time.Hour),
		Reason:      "limping",
		Status:      model.AppointmentStatusScheduled,
		CreatedBy:   reception.ID,
	}
	require.NoError(t, store.Appointments().Create(ctx, apt))

	f := &fixture{
		store:       store,
		clock:       clock.NewMock(epoch),
		events:      messaging.NewRecorder(),
		metrics:     metrics.NewMetrics(prometheus.NewRegistry(), "test"),
		vet:         vet,
		otherVet:    addUser(t, store, model.RoleVet),
		appointment: apt,
	}
	f.svc = NewService(store.MedicalRecords(), store.Appointments(), f.events, f.metrics, nil, f.clock, nil)
	return f
}

func (f *fixture) request() *model.CreateMedicalRecordRequest {
	return &model.CreateMedicalRecordRequest{
		AppointmentID: f.appointment.ID,
		Diagnosis:     "sprain",
		Treatment:     "rest",
		Prescriptions: []model.Prescription{
			{Medicine: "meloxicam", Dosage: "0.1mg/kg", Frequency: "24h", DurationDays: 5},
		},
	}
}

func TestCreateMedicalRecord(t *testing.T) {
	f := setup(t)

	req := f.request()
	claimed := f.otherVet.ID
	req.VetID = &claimed
	follow := model.NewDate(2030, 3, 20)
	req.FollowUpDate = &follow

	rec, err := f.svc.CreateMedicalRecord(context.Background(), req, f.vet)
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, f.vet.ID, rec.VetID, "vet id comes from the author")
	assert.Equal(t, f.appointment.VetID, rec.VetID)
	assert.Equal(t, epoch, rec.CreatedAt)
	assert.Equal(t, epoch, rec.UpdatedAt)
	require.Len(t, rec.Prescriptions, 1)
	assert.Equal(t, "2030-03-20", rec.FollowUpDate.String())
	assert.Equal(t, []string{messaging.EventMedicalRecordCreated}, f.events.Types())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.MedicalRecordsWritten.WithLabelValues("create")))
}

func TestCreateMedicalRecordWithoutPrescriptions(t *testing.T) {
	f := setup(t)
	req := f.request()
	req.Prescriptions = nil

	rec, err := f.svc.CreateMedicalRecord(context.Background(), req, f.vet)
	require.NoError(t, err)
	assert.NotNil(t, rec.Prescriptions)
	assert.Empty(t, rec.Prescriptions)
}

func TestCreateMedicalRecordByOtherUserIsForbidden(t *testing.T) {
	f := setup(t)
	admin := addUser(t, f.store, model.RoleAdmin)

	for _, actor := range []*model.Actor{f.otherVet, admin} {
		_, err := f.svc.CreateMedicalRecord(context.Background(), f.request(), actor)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
		assert.Equal(t, "You are not the veterinarian of this appointment", appErr.Message)
	}

	// even an invalid payload reports the identity failure first
	bad := f.request()
	bad.Diagnosis = ""
	_, err := f.svc.CreateMedicalRecord(context.Background(), bad, f.otherVet)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	assert.Empty(t, f.events.Types())
}

func TestCreateMedicalRecordErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	missing := f.request()
	missing.AppointmentID = 999
	_, err := f.svc.CreateMedicalRecord(ctx, missing, f.vet)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	invalid := []func(*model.CreateMedicalRecordRequest){
		func(r *model.CreateMedicalRecordRequest) { r.Diagnosis = " " },
		func(r *model.CreateMedicalRecordRequest) { r.Treatment = "" },
		func(r *model.CreateMedicalRecordRequest) { r.Prescriptions[0].Medicine = "" },
		func(r *model.CreateMedicalRecordRequest) { r.Prescriptions[0].DurationDays = 0 },
	}
	for _, mutate := range invalid {
		req := f.request()
		mutate(req)
		_, err := f.svc.CreateMedicalRecord(ctx, req, f.vet)
		assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	}

	_, err = f.svc.CreateMedicalRecord(ctx, f.request(), f.vet)
	require.NoError(t, err)

	_, err = f.svc.CreateMedicalRecord(ctx, f.request(), f.vet)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, repository.MsgRecordExists, appErr.Message)
}

func TestUpdateMedicalRecord(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svc.CreateMedicalRecord(ctx, f.request(), f.vet)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	treatment := "rest and ice"
	updated, err := f.svc.UpdateMedicalRecord(ctx, rec.ID, &model.UpdateMedicalRecordRequest{Treatment: &treatment}, f.vet)
	require.NoError(t, err)

	assert.Equal(t, "sprain", updated.Diagnosis)
	assert.Equal(t, "rest and ice", updated.Treatment)
	assert.Len(t, updated.Prescriptions, 1)
	assert.Equal(t, epoch, updated.CreatedAt)
	assert.Equal(t, epoch.Add(time.Hour), updated.UpdatedAt)

	_, err = f.svc.UpdateMedicalRecord(ctx, rec.ID, &model.UpdateMedicalRecordRequest{Treatment: &treatment}, f.otherVet)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = f.svc.UpdateMedicalRecord(ctx, 999, &model.UpdateMedicalRecordRequest{Treatment: &treatment}, f.vet)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	empty := ""
	_, err = f.svc.UpdateMedicalRecord(ctx, rec.ID, &model.UpdateMedicalRecordRequest{Diagnosis: &empty}, f.vet)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	assert.Equal(t, []string{messaging.EventMedicalRecordCreated, messaging.EventMedicalRecordUpdated}, f.events.Types())
}

func TestDeleteMedicalRecord(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svc.CreateMedicalRecord(ctx, f.request(), f.vet)
	require.NoError(t, err)

	list, err := f.svc.ListMedicalRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteMedicalRecord(ctx, rec.ID, f.vet))

	_, err = f.svc.GetMedicalRecord(ctx, rec.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(f.svc.DeleteMedicalRecord(ctx, rec.ID, f.vet), apperrors.ErrNotFound))
}
