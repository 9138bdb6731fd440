package features

import (
	"context"
	"sync"
)

// Platform module keys as used by the UI to gate whole surfaces.
const (
	ModuleIncidents  = "incidents"
	ModuleAssets     = "assets"
	ModuleCompliance = "compliance"
	ModuleVacations  = "vacations"
	ModuleReports    = "reports"
	ModuleChat       = "chat"
)

// Feature flag keys.
const (
	FlagAIChat      = "ai-chat"
	FlagPDFExport   = "pdf-export"
	FlagDashboardV2 = "dashboard-v2"
)

// ModuleSource reports which platform modules are currently active.
type ModuleSource interface {
	ActiveModules(ctx context.Context) (map[string]bool, error)
}

// FlagSource reports which feature flags are currently enabled.
type FlagSource interface {
	EnabledFlags(ctx context.Context) (map[string]bool, error)
}

// StaticRegistry is an in-memory ModuleSource and FlagSource, seeded with the
// platform defaults. Used in development mode and in tests.
type StaticRegistry struct {
	modules map[string]bool
	flags   map[string]bool
	lock    sync.RWMutex
}

var _ ModuleSource = (*StaticRegistry)(nil)
var _ FlagSource = (*StaticRegistry)(nil)

func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		modules: map[string]bool{
			ModuleIncidents:  true,
			ModuleAssets:     true,
			ModuleCompliance: true,
			ModuleVacations:  true,
			ModuleReports:    true,
			ModuleChat:       true,
		},
		flags: map[string]bool{
			FlagAIChat:      true,
			FlagPDFExport:   true,
			FlagDashboardV2: false,
		},
	}
}

func (r *StaticRegistry) ActiveModules(_ context.Context) (map[string]bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return cloneBoolMap(r.modules), nil
}

func (r *StaticRegistry) EnabledFlags(_ context.Context) (map[string]bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return cloneBoolMap(r.flags), nil
}

func (r *StaticRegistry) SetModule(key string, active bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.modules[key] = active
}

func (r *StaticRegistry) SetFlag(key string, enabled bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.flags[key] = enabled
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
