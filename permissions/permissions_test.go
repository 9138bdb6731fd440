package permissions_test

import (
	"context"
	"errors"
	"testing"

	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/stretchr/testify/require"
)

type staticOverrides struct {
	grants map[permissions.Role]map[permissions.Capability]bool
	err    error
}

func (s *staticOverrides) Overrides(_ context.Context, role permissions.Role) (map[permissions.Capability]bool, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.grants[role], nil
}

func TestResolve_DenyByDefault(t *testing.T) {
	model := permissions.NewModel()

	perms, err := model.Resolve(context.Background(), permissions.Role("intern"))
	require.NoError(t, err)

	require.NotEmpty(t, perms)
	for capability, allowed := range perms {
		require.False(t, allowed, "unknown role granted %s", capability)
	}
}

func TestResolve_ViewerCannotManage(t *testing.T) {
	model := permissions.NewModel()

	perms, err := model.Resolve(context.Background(), permissions.RoleViewer)
	require.NoError(t, err)

	require.True(t, perms[permissions.CapIncidentsView])
	require.True(t, perms[permissions.CapReportsView])
	require.False(t, perms[permissions.CapIncidentsManage])
	require.False(t, perms[permissions.CapUsersManage])
	require.False(t, perms[permissions.CapAdminAccess])
}

func TestResolve_AdminHasEverything(t *testing.T) {
	model := permissions.NewModel()

	perms, err := model.Resolve(context.Background(), permissions.RoleAdmin)
	require.NoError(t, err)

	for capability, allowed := range perms {
		require.True(t, allowed, "admin missing %s", capability)
	}
}

func TestResolve_OverrideOverlay(t *testing.T) {
	src := &staticOverrides{grants: map[permissions.Role]map[permissions.Capability]bool{
		permissions.RoleViewer: {
			permissions.CapReportsExport: true,
			permissions.CapReportsView:   false,
		},
	}}
	model := permissions.NewModel(permissions.WithOverrideSource(src))

	perms, err := model.Resolve(context.Background(), permissions.RoleViewer)
	require.NoError(t, err)

	require.True(t, perms[permissions.CapReportsExport])
	require.False(t, perms[permissions.CapReportsView])
	// Untouched defaults survive the overlay.
	require.True(t, perms[permissions.CapIncidentsView])
}

func TestResolve_AdminAccessSurvivesOverride(t *testing.T) {
	src := &staticOverrides{grants: map[permissions.Role]map[permissions.Capability]bool{
		permissions.RoleAdmin: {
			permissions.CapAdminAccess: false,
		},
	}}
	model := permissions.NewModel(permissions.WithOverrideSource(src))

	allowed, err := model.Allowed(context.Background(), permissions.RoleAdmin, permissions.CapAdminAccess)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestResolve_OverrideSourceFailure(t *testing.T) {
	src := &staticOverrides{err: errors.New("connection refused")}
	model := permissions.NewModel(permissions.WithOverrideSource(src))

	_, err := model.Resolve(context.Background(), permissions.RoleTechnician)
	require.ErrorIs(t, err, ierrors.ErrStorageFailure)
}

func TestDefaultTable_DeepCopy(t *testing.T) {
	first := permissions.DefaultTable()
	first[permissions.RoleViewer][permissions.CapUsersManage] = true
	first[permissions.RoleAdmin][permissions.CapAdminAccess] = false

	second := permissions.DefaultTable()
	require.False(t, second[permissions.RoleViewer][permissions.CapUsersManage])
	require.True(t, second[permissions.RoleAdmin][permissions.CapAdminAccess])
}

func TestBaseline_AllDenied(t *testing.T) {
	base := permissions.Baseline()
	require.NotEmpty(t, base)
	for _, allowed := range base {
		require.False(t, allowed)
	}
}
