package seeders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/repositories"
	"rheuma-portal/pkg/config"
	"rheuma-portal/pkg/constants"
	"rheuma-portal/pkg/utils"
)

type fakeUsers struct {
	repositories.UserRepositoryInterface
	admins  uint64
	created []*entities.User
}

func (f *fakeUsers) CountByRole(_ context.Context, role string) (uint64, error) {
	if role == constants.RoleAdmin {
		return f.admins, nil
	}
	return 0, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, u *entities.User) (*entities.User, error) {
	u.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, u)
	return u, nil
}

func TestSeedAdmin_CreatesFirstAdmin(t *testing.T) {
	users := &fakeUsers{}
	cfg := config.SeederConfig{AdminUsername: " Admin ", AdminEmail: "ADMIN@rheuma.uz", AdminPassword: "s3cret-pass"}

	created, err := SeedAdmin(context.Background(), users, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, users.created, 1)

	u := users.created[0]
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "admin@rheuma.uz", u.Email)
	assert.Equal(t, constants.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, utils.ComparePasswords(u.Password, "s3cret-pass"))
}

func TestSeedAdmin_SkipsWhenAdminExists(t *testing.T) {
	users := &fakeUsers{admins: 1}

	created, err := SeedAdmin(context.Background(), users, config.SeederConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, users.created)
}

func TestSeedAdmin_RequiresPassword(t *testing.T) {
	_, err := SeedAdmin(context.Background(), &fakeUsers{}, config.SeederConfig{AdminUsername: "admin"}, zap.NewNop())
	assert.Error(t, err)
}
