package user

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
	"github.com/jwalitptl/vetclinic-api/pkg/security"
)

type forgetful struct {
	ids []int64
}

func (f *forgetful) Forget(id int64) {
	f.ids = append(f.ids, id)
}

func setup(t *testing.T) (*Service, *forgetful, *model.Actor) {
	t.Helper()
	store := memory.NewStore()
	inv := &forgetful{}
	clk := clock.NewMock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	svc := NewService(store.Users(), security.NewBcryptHasher(4), inv, nil, clk)

	admin, created, err := svc.EnsureAdmin(context.Background(), "Admin", "admin@clinic.test", "admin-password")
	require.NoError(t, err)
	require.True(t, created)
	return svc, inv, admin.Actor()
}

func vetRequest() *model.CreateUserRequest {
	return &model.CreateUserRequest{
		Name:     "Dr. Ana",
		Email:    "ana@clinic.test",
		Password: "s3cret-pass",
		Role:     model.RoleVet,
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, _, admin := setup(t)

	again, created, err := svc.EnsureAdmin(context.Background(), "Admin", "admin@clinic.test", "admin-password")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, model.RoleAdmin, again.Role)
}

func TestRegisterUser(t *testing.T) {
	svc, _, admin := setup(t)
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, vetRequest(), admin)
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.Equal(t, model.RoleVet, u.Role)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	_, err = svc.RegisterUser(ctx, vetRequest(), admin)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, repository.MsgUserEmailTaken, appErr.Message)

	other := vetRequest()
	other.Email = "bob@clinic.test"
	_, err = svc.RegisterUser(ctx, other, u.Actor())
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	short := vetRequest()
	short.Email = "short@clinic.test"
	short.Password = "123"
	_, err = svc.RegisterUser(ctx, short, admin)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestUpdateUserRoleIsAdminOnly(t *testing.T) {
	svc, inv, admin := setup(t)
	ctx := context.Background()

	vet, err := svc.RegisterUser(ctx, vetRequest(), admin)
	require.NoError(t, err)

	role := model.RoleAdmin
	_, err = svc.UpdateUser(ctx, vet.ID, &model.UpdateUserRequest{Role: &role}, vet.Actor())
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	name := "Dr. Ana Souza"
	updated, err := svc.UpdateUser(ctx, vet.ID, &model.UpdateUserRequest{Name: &name}, vet.Actor())
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ana Souza", updated.Name)
	assert.Equal(t, model.RoleVet, updated.Role)

	_, err = svc.UpdateUser(ctx, admin.ID, &model.UpdateUserRequest{Name: &name}, vet.Actor())
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	receptionist := model.RoleReceptionist
	updated, err = svc.UpdateUser(ctx, vet.ID, &model.UpdateUserRequest{Role: &receptionist}, admin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleReceptionist, updated.Role)

	assert.Equal(t, []int64{vet.ID, vet.ID}, inv.ids)
}

func TestSetActive(t *testing.T) {
	svc, inv, admin := setup(t)
	ctx := context.Background()

	vet, err := svc.RegisterUser(ctx, vetRequest(), admin)
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, vet.ID, false, vet.Actor())
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	u, err := svc.SetActive(ctx, vet.ID, false, admin)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.Equal(t, []int64{vet.ID}, inv.ids)

	_, err = svc.SetActive(ctx, 999, true, admin)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteUser(t *testing.T) {
	svc, _, admin := setup(t)
	ctx := context.Background()

	vet, err := svc.RegisterUser(ctx, vetRequest(), admin)
	require.NoError(t, err)

	assert.True(t, apperrors.Is(svc.DeleteUser(ctx, vet.ID, vet.Actor()), apperrors.ErrForbidden))
	require.NoError(t, svc.DeleteUser(ctx, vet.ID, admin))

	_, err = svc.GetUser(ctx, vet.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(svc.DeleteUser(ctx, vet.ID, admin), apperrors.ErrNotFound))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
