package session

import (
	"context"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/features"
	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
	"github.com/pkg/errors"
)

// UserInfo is the identity slice of a snapshot.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Snapshot is the full authorization payload a client needs to drive UI
// gating. Computed fresh on every request, never persisted.
type Snapshot struct {
	User          UserInfo        `json:"user"`
	Permissions   map[string]bool `json:"permissions"`
	ActiveModules map[string]bool `json:"activeModules"`
	FeatureFlags  map[string]bool `json:"featureFlags"`
}

// Resolver turns a bearer access token into a Snapshot. It is read-only:
// beyond the user, module and flag lookups it performs no I/O and mutates
// nothing.
type Resolver struct {
	codec   *token.Codec
	users   users.Repo
	perms   *permissions.Model
	modules features.ModuleSource
	flags   features.FlagSource
}

func NewResolver(
	codec *token.Codec,
	userRepo users.Repo,
	perms *permissions.Model,
	modules features.ModuleSource,
	flags features.FlagSource,
) (*Resolver, error) {
	if codec == nil {
		return nil, errors.New("[NewResolver] codec is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewResolver] user repo is required")
	}
	if perms == nil {
		return nil, errors.New("[NewResolver] permission model is required")
	}
	if modules == nil {
		return nil, errors.New("[NewResolver] module source is required")
	}
	if flags == nil {
		return nil, errors.New("[NewResolver] flag source is required")
	}
	return &Resolver{
		codec:   codec,
		users:   userRepo,
		perms:   perms,
		modules: modules,
		flags:   flags,
	}, nil
}

// Resolve verifies the access token and assembles the snapshot. A token for
// a since-deleted user fails with ErrMissingSubject: the token outlives the
// user, and a session must never resolve for a deleted account.
func (r *Resolver) Resolve(ctx context.Context, rawToken string) (*Snapshot, error) {
	intro := r.codec.Verify(rawToken, token.TypeAccess)
	if !intro.Active {
		return nil, ierrors.ErrInvalidCredential
	}

	user, err := r.users.GetByID(ctx, intro.UserID)
	if err != nil {
		if ierrors.Is(err, ierrors.ErrNotFound) {
			return nil, ierrors.ErrMissingSubject
		}
		return nil, ierrors.Storage(errors.Wrap(err, "session.Resolver.Resolve user"))
	}

	// Prefer the role claim frozen into the token at issuance; fall back to
	// the stored role when the claim is absent.
	role := permissions.Role(intro.Role)
	if role == "" {
		role = user.Role
	}

	perms, err := r.perms.Resolve(ctx, role)
	if err != nil {
		return nil, err
	}

	modules, err := r.modules.ActiveModules(ctx)
	if err != nil {
		return nil, ierrors.Storage(errors.Wrap(err, "session.Resolver.Resolve modules"))
	}
	flags, err := r.flags.EnabledFlags(ctx)
	if err != nil {
		return nil, ierrors.Storage(errors.Wrap(err, "session.Resolver.Resolve flags"))
	}

	return &Snapshot{
		User: UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Role:  string(role),
		},
		Permissions:   capabilityKeys(perms),
		ActiveModules: modules,
		FeatureFlags:  flags,
	}, nil
}

func capabilityKeys(perms map[permissions.Capability]bool) map[string]bool {
	out := make(map[string]bool, len(perms))
	for capability, allowed := range perms {
		out[string(capability)] = allowed
	}
	return out
}
