package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func emptyUserRepo() *userRepoStub {
	return &userRepoStub{
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn: func(_ context.Context, user *models.User) error {
			user.ID = 1
			return nil
		},
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("success hashes password and defaults role", func(t *testing.T) {
		svc := NewUserService(emptyUserRepo())
		user, err := svc.Register(context.Background(), RegisterInput{
			Username: "alice",
			Email:    "Alice@Example.com",
			Password: "Sup3rSecret",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, models.RoleAuthor, user.Role)
		assert.NotEqual(t, "Sup3rSecret", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Sup3rSecret")))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		repo := emptyUserRepo()
		repo.getByEmailFn = func(context.Context, string) (*models.User, error) {
			return &models.User{ID: 2}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "alice", Email: "alice@example.com", Password: "Sup3rSecret",
		})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeConflict, appErr.Code)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		svc := NewUserService(emptyUserRepo())
		_, err := svc.Register(context.Background(), RegisterInput{
			Username: "alice", Email: "alice@example.com", Password: "short",
		})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &userRepoStub{
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			if email == "alice@example.com" {
				return &models.User{ID: 1, Email: email, PasswordHash: string(hash)}, nil
			}
			return nil, nil
		},
	}
	svc := NewUserService(repo)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		user, err := svc.Login(ctx, "alice@example.com", "Sup3rSecret")
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrong")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeUnauthorized, appErr.Code)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "whatever")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeUnauthorized, appErr.Code)
		assert.Equal(t, "invalid credentials", appErr.Message)
	})
}
