package refreshrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

// FakeRefreshTokenRepo is an in-memory refresh.Repo for tests and for running
// the server without a database. FailWith, when set, makes every operation
// return that error, for exercising storage-failure paths.
type FakeRefreshTokenRepo struct {
	tokens  map[string]*refresh.StoredRefreshToken
	lock    sync.Mutex
	nowFunc func() time.Time

	FailWith error
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens:  make(map[string]*refresh.StoredRefreshToken),
		nowFunc: time.Now,
	}
}

// SetNowFunc overrides the expiry clock (tests only).
func (tr *FakeRefreshTokenRepo) SetNowFunc(now func() time.Time) {
	tr.nowFunc = now
}

func (tr *FakeRefreshTokenRepo) Save(_ context.Context, rec *refresh.StoredRefreshToken) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if tr.FailWith != nil {
		return tr.FailWith
	}
	copied := *rec
	tr.tokens[rec.Token] = &copied
	return nil
}

func (tr *FakeRefreshTokenRepo) Validate(_ context.Context, token string) (*refresh.StoredRefreshToken, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if tr.FailWith != nil {
		return nil, tr.FailWith
	}
	rec, ok := tr.tokens[token]
	if !ok || !rec.ExpiresAt.After(tr.nowFunc()) {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (tr *FakeRefreshTokenRepo) Take(_ context.Context, token string) (*refresh.StoredRefreshToken, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if tr.FailWith != nil {
		return nil, tr.FailWith
	}
	rec, ok := tr.tokens[token]
	if !ok {
		return nil, nil
	}
	delete(tr.tokens, token)
	if !rec.ExpiresAt.After(tr.nowFunc()) {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (tr *FakeRefreshTokenRepo) Invalidate(_ context.Context, token string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if tr.FailWith != nil {
		return tr.FailWith
	}
	delete(tr.tokens, token)
	return nil
}

// Len reports the number of stored rows, expired included (tests only).
func (tr *FakeRefreshTokenRepo) Len() int {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return len(tr.tokens)
}
