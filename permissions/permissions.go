package permissions

import (
	"context"

	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
	"github.com/pkg/errors"
)

// Role is a user role as carried in token claims and user records.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleTechnician Role = "technician"
	RoleViewer     Role = "viewer"
)

// Capability identifies a single gated action or surface.
type Capability string

const (
	CapAdminAccess      Capability = "admin:access"
	CapUsersManage      Capability = "users:manage"
	CapSettingsManage   Capability = "settings:manage"
	CapIncidentsView    Capability = "incidents:view"
	CapIncidentsManage  Capability = "incidents:manage"
	CapAssetsView       Capability = "assets:view"
	CapAssetsManage     Capability = "assets:manage"
	CapComplianceView   Capability = "compliance:view"
	CapComplianceManage Capability = "compliance:manage"
	CapVacationsRequest Capability = "vacations:request"
	CapVacationsApprove Capability = "vacations:approve"
	CapReportsView      Capability = "reports:view"
	CapReportsExport    Capability = "reports:export"
	CapChatUse          Capability = "chat:use"
)

// allCapabilities is the deny-by-default baseline: every key present, all false.
var allCapabilities = []Capability{
	CapAdminAccess,
	CapUsersManage,
	CapSettingsManage,
	CapIncidentsView,
	CapIncidentsManage,
	CapAssetsView,
	CapAssetsManage,
	CapComplianceView,
	CapComplianceManage,
	CapVacationsRequest,
	CapVacationsApprove,
	CapReportsView,
	CapReportsExport,
	CapChatUse,
}

// defaultGrants lists only the explicit true entries per role; anything not
// listed stays at the deny-by-default baseline.
var defaultGrants = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapAdminAccess:      true,
		CapUsersManage:      true,
		CapSettingsManage:   true,
		CapIncidentsView:    true,
		CapIncidentsManage:  true,
		CapAssetsView:       true,
		CapAssetsManage:     true,
		CapComplianceView:   true,
		CapComplianceManage: true,
		CapVacationsRequest: true,
		CapVacationsApprove: true,
		CapReportsView:      true,
		CapReportsExport:    true,
		CapChatUse:          true,
	},
	RoleSupervisor: {
		CapIncidentsView:    true,
		CapIncidentsManage:  true,
		CapAssetsView:       true,
		CapComplianceView:   true,
		CapComplianceManage: true,
		CapVacationsRequest: true,
		CapVacationsApprove: true,
		CapReportsView:      true,
		CapReportsExport:    true,
		CapChatUse:          true,
	},
	RoleTechnician: {
		CapIncidentsView:    true,
		CapIncidentsManage:  true,
		CapAssetsView:       true,
		CapVacationsRequest: true,
		CapChatUse:          true,
	},
	RoleViewer: {
		CapIncidentsView: true,
		CapAssetsView:    true,
		CapReportsView:   true,
	},
}

// DefaultTable returns a fresh deep copy of the canonical role table.
// Callers may mutate the result freely.
func DefaultTable() map[Role]map[Capability]bool {
	table := make(map[Role]map[Capability]bool, len(defaultGrants))
	for role, grants := range defaultGrants {
		row := make(map[Capability]bool, len(grants))
		for capability, allowed := range grants {
			row[capability] = allowed
		}
		table[role] = row
	}
	return table
}

// Baseline returns every known capability mapped to false.
func Baseline() map[Capability]bool {
	base := make(map[Capability]bool, len(allCapabilities))
	for _, capability := range allCapabilities {
		base[capability] = false
	}
	return base
}

// OverrideSource supplies role-specific grant overrides from a collaborator
// (typically a database table). A nil map means no overrides for the role.
type OverrideSource interface {
	Overrides(ctx context.Context, role Role) (map[Capability]bool, error)
}

// Model resolves role capabilities in two tiers: static defaults first,
// then collaborator overrides.
type Model struct {
	overrides OverrideSource
}

type ModelOption func(*Model)

// WithOverrideSource attaches a dynamic override tier on top of the defaults.
func WithOverrideSource(src OverrideSource) ModelOption {
	return func(m *Model) {
		m.overrides = src
	}
}

func NewModel(options ...ModelOption) *Model {
	m := &Model{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Resolve returns the effective capability set for a role: the full
// deny-by-default baseline, overlaid with the role's default grants, then
// with any collaborator overrides. The administrative role always keeps the
// admin capability, regardless of what an override says; losing it would
// lock every administrator out of the system.
func (m *Model) Resolve(ctx context.Context, role Role) (map[Capability]bool, error) {
	perms := Baseline()
	for capability, allowed := range DefaultTable()[role] {
		perms[capability] = allowed
	}

	if m.overrides != nil {
		overrides, err := m.overrides.Overrides(ctx, role)
		if err != nil {
			return nil, ierrors.Storage(errors.Wrap(err, "permissions.Model.Resolve overrides"))
		}
		for capability, allowed := range overrides {
			perms[capability] = allowed
		}
	}

	if role == RoleAdmin {
		perms[CapAdminAccess] = true
	}
	return perms, nil
}

// Allowed reports whether the role holds a single capability.
func (m *Model) Allowed(ctx context.Context, role Role, capability Capability) (bool, error) {
	perms, err := m.Resolve(ctx, role)
	if err != nil {
		return false, err
	}
	return perms[capability], nil
}
