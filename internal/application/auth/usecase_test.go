package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/auth"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/mocks"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/jwt"
)

func user(t *testing.T, status string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{ID: "u-1", EntityID: "ent-1", Email: "ana@puskesmas.id", PasswordHash: string(hash),
		Role: entity.RoleOperator, Status: status}
}

func newUseCase(repo *mocks.UserRepository) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: "s3cret", ExpMinutes: 10, Issuer: "test"})
}

func TestLogin_OK(t *testing.T) {
	repo := &mocks.UserRepository{}
	ctx := context.Background()
	repo.On("FindByEmail", ctx, "ana@puskesmas.id").Return(user(t, "active"), nil)

	res, err := newUseCase(repo).Login(ctx, dto.LoginRequest{Email: " ana@puskesmas.id ", Password: "clave-123"})
	require.NoError(t, err)
	assert.Equal(t, "ent-1", res.User.EntityID)

	userID, entityID, role, err := jwt.Parse("s3cret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "ent-1", entityID)
	assert.Equal(t, entity.RoleOperator, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	repo := &mocks.UserRepository{}
	ctx := context.Background()
	repo.On("FindByEmail", ctx, "ana@puskesmas.id").Return(user(t, "active"), nil)

	_, err := newUseCase(repo).Login(ctx, dto.LoginRequest{Email: "ana@puskesmas.id", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := &mocks.UserRepository{}
	ctx := context.Background()
	repo.On("FindByEmail", ctx, "ana@puskesmas.id").Return(user(t, "inactive"), nil)

	_, err := newUseCase(repo).Login(ctx, dto.LoginRequest{Email: "ana@puskesmas.id", Password: "clave-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_NoExiste(t *testing.T) {
	repo := &mocks.UserRepository{}
	ctx := context.Background()
	repo.On("FindByEmail", ctx, "nadie@x.id").Return(nil, nil)

	_, err := newUseCase(repo).Login(ctx, dto.LoginRequest{Email: "nadie@x.id", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
