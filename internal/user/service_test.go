package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/auth"
)

type memRepository struct {
	byID map[string]*User
	seq  int
}

func newMemRepository() *memRepository {
	return &memRepository{byID: map[string]*User{}}
}

func (m *memRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepository) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepository) Create(_ context.Context, u *User) error {
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memRepository) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (m *memRepository) List(_ context.Context, filter Filter) ([]*User, int, error) {
	var out []*User
	for _, u := range m.byID {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *memRepository) Update(_ context.Context, u *User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return ErrNotFound
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func newTestService() (Service, *memRepository) {
	repo := newMemRepository()
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4)), repo
}

func TestRegisterCreatesGuest(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Guest@Example.com ", "password123", " Ada ")
	require.NoError(t, err)

	assert.Equal(t, "guest@example.com", u.Email)
	assert.Equal(t, RoleGuest, u.Role)
	assert.True(t, u.IsActive)
	require.NotNil(t, u.DisplayName)
	assert.Equal(t, "Ada", *u.DisplayName)
	assert.NotEqual(t, "password123", u.PasswordHash)

	_, err = svc.Register(ctx, "guest@example.com", "password123", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "   ", "password123", "")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(ctx, "a@b.c", "short", "")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "guest@example.com", "password123", "")
	require.NoError(t, err)

	logged, err := svc.Login(ctx, "GUEST@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotNil(t, logged.LastLoginAt)

	_, err = svc.Login(ctx, "guest@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.byID[u.ID].IsActive = false
	_, err = svc.Login(ctx, "guest@example.com", "password123")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdateRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "staff@example.com", "password123", "")
	require.NoError(t, err)

	staff := RoleStaff
	updated, err := svc.Update(ctx, u.ID, UpdateRequest{Role: &staff})
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, updated.Role)
	assert.True(t, updated.Role.IsStaff())

	bogus := Role("OWNER")
	_, err = svc.Update(ctx, u.ID, UpdateRequest{Role: &bogus})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Update(ctx, "missing", UpdateRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.List(ctx, Filter{Role: bogus})
	assert.ErrorIs(t, err, ErrInvalidRole)
}
