package auth

import (
	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
)

// Re-exported failure shapes so callers of the service can match without
// importing internal/errors directly.
var (
	ErrInvalidCredential = ierrors.ErrInvalidCredential
	ErrRevokedCredential = ierrors.ErrRevokedCredential
	ErrMissingSubject    = ierrors.ErrMissingSubject
	ErrForbidden         = ierrors.ErrForbidden
	ErrStorageFailure    = ierrors.ErrStorageFailure
)
