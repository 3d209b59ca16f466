package access

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/veenapanicker/nexus/internal/database"
	"github.com/veenapanicker/nexus/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestCreateInvite(t *testing.T) {
	m := NewManager(testDB(t), nil, nil)

	admin, err := m.CreateInvite(Invite{
		Name:        "Marcus Webb",
		Email:       "mwebb@stateuniversity.edu",
		Role:        models.RoleInstitutionalAdmin,
		Institution: "State University",
		Products:    []models.Product{models.ProductConnect},
	}, "Sarah Chen")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(admin.ID, "user-"))
	assert.Equal(t, models.AdminStatusInvited, admin.Status)
	assert.Equal(t, "Sarah Chen", admin.AddedBy)
	assert.Equal(t, models.AccessFull, admin.Permissions.Reports)
	assert.Equal(t, models.AccessFull, admin.Permissions.Licenses)
	assert.Equal(t, models.AccessViewOnly, admin.Permissions.Enrollment)

	// The role preset allows all three modules, so each carries the
	// granted products.
	assert.Equal(t, []models.Product{models.ProductConnect}, admin.ProductAccess.Reports)
	assert.Equal(t, []models.Product{models.ProductConnect}, admin.ProductAccess.Licenses)
	assert.Equal(t, []models.Product{models.ProductConnect}, admin.ProductAccess.Enrollment)
}

func TestGetByEmail(t *testing.T) {
	m := NewManager(testDB(t), nil, nil)

	created, err := m.CreateInvite(Invite{
		Name:  "Marcus Webb",
		Email: "mwebb@stateuniversity.edu",
		Role:  models.RoleBillingAdmin,
	}, "system")
	require.NoError(t, err)

	admin, err := m.GetByEmail("mwebb@stateuniversity.edu")
	require.NoError(t, err)
	assert.Equal(t, created.ID, admin.ID)

	_, err = m.GetByEmail("nobody@stateuniversity.edu")
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestUpdatePermissionsClearsRevokedModules(t *testing.T) {
	m := NewManager(testDB(t), nil, nil)

	admin, err := m.CreateInvite(Invite{
		Name:     "Marcus Webb",
		Email:    "mwebb@stateuniversity.edu",
		Role:     models.RoleInstitutionalAdmin,
		Products: []models.Product{models.ProductConnect, models.ProductALEKS},
	}, "system")
	require.NoError(t, err)

	updated, err := m.UpdatePermissions(admin.ID, PermissionUpdate{
		Permissions: models.ModulePermissions{
			Reports:    models.AccessFull,
			Licenses:   models.AccessNone,
			Enrollment: models.AccessViewOnly,
		},
		ProductAccess: models.ProductAccess{
			Reports:    []models.Product{models.ProductConnect},
			Licenses:   []models.Product{models.ProductConnect},
			Enrollment: []models.Product{models.ProductALEKS},
		},
	})
	require.NoError(t, err)

	// Product lists must stay empty for modules set to none.
	assert.Equal(t, models.AccessNone, updated.Permissions.Licenses)
	assert.Empty(t, updated.ProductAccess.Licenses)
	assert.Equal(t, []models.Product{models.ProductConnect}, updated.ProductAccess.Reports)
	assert.Equal(t, []models.Product{models.ProductALEKS}, updated.ProductAccess.Enrollment)
}

func TestUpdatePermissionsUnknownAdmin(t *testing.T) {
	m := NewManager(testDB(t), nil, nil)

	_, err := m.UpdatePermissions("user-unknown", PermissionUpdate{})
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestActivate(t *testing.T) {
	m := NewManager(testDB(t), nil, nil)

	admin, err := m.CreateInvite(Invite{
		Name:  "Marcus Webb",
		Email: "mwebb@stateuniversity.edu",
		Role:  models.RoleInstitutionalAdmin,
	}, "system")
	require.NoError(t, err)

	require.NoError(t, m.Activate(admin.ID))

	got, err := m.Get(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdminStatusActive, got.Status)

	// Activating again is harmless.
	require.NoError(t, m.Activate(admin.ID))
}

func TestRemoveIdempotent(t *testing.T) {
	m := NewManager(testDB(t), nil, nil)

	admin, err := m.CreateInvite(Invite{
		Name:  "Marcus Webb",
		Email: "mwebb@stateuniversity.edu",
		Role:  models.RoleInstitutionalAdmin,
	}, "system")
	require.NoError(t, err)

	require.NoError(t, m.Remove(admin.ID))
	require.NoError(t, m.Remove(admin.ID))
	require.NoError(t, m.Remove("user-unknown"))

	_, err = m.Get(admin.ID)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestListFiltersByModule(t *testing.T) {
	m := NewManager(testDB(t), nil, nil)

	_, err := m.CreateInvite(Invite{
		Name:  "Marcus Webb",
		Email: "mwebb@stateuniversity.edu",
		Role:  models.RoleInstitutionalAdmin,
	}, "system")
	require.NoError(t, err)

	viewers, err := m.List(models.ModuleLicenses)
	require.NoError(t, err)
	assert.Len(t, viewers, 1)
}

func TestStats(t *testing.T) {
	m := NewManager(testDB(t), nil, nil)

	first, err := m.CreateInvite(Invite{
		Name:  "Sarah Chen",
		Email: "schen@stateuniversity.edu",
		Role:  models.RoleInstitutionalAdmin,
	}, "system")
	require.NoError(t, err)
	require.NoError(t, m.Activate(first.ID))

	_, err = m.CreateInvite(Invite{
		Name:  "Marcus Webb",
		Email: "mwebb@stateuniversity.edu",
		Role:  models.RoleBillingAdmin,
	}, "system")
	require.NoError(t, err)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Invited)
}
