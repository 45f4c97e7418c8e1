package rbac

import (
	"context"
	"maps"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/permission"
)

type memoCtxKey struct{}

type memoKey struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

// memo caches resolved sets for one request.
type memo struct {
	mu   sync.Mutex
	sets map[memoKey]permission.Set
}

// WithMemo returns a context carrying a fresh, empty ability memo.
// Install it once per request.
func WithMemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, memoCtxKey{}, &memo{sets: make(map[memoKey]permission.Set)})
}

// Memoize returns the memoized set for (orgID, userID) or computes and
// stores it. Without a memo in ctx it always computes.
// Callers get a copy, so mutating the result does not poison the memo.
func Memoize(
	ctx context.Context,
	orgID, userID uuid.UUID,
	compute func() (permission.Set, error),
) (permission.Set, error) {
	m, ok := ctx.Value(memoCtxKey{}).(*memo)
	if !ok {
		return compute()
	}

	key := memoKey{orgID: orgID, userID: userID}

	m.mu.Lock()
	defer m.mu.Unlock()

	if set, ok := m.sets[key]; ok {
		return maps.Clone(set), nil
	}

	set, err := compute()
	if err != nil {
		return nil, err
	}
	m.sets[key] = set
	return maps.Clone(set), nil
}

// Forget drops the memoized set for (orgID, userID). Call it after a
// mutation in the same request changes that user's grants.
func Forget(ctx context.Context, orgID, userID uuid.UUID) {
	m, ok := ctx.Value(memoCtxKey{}).(*memo)
	if !ok {
		return
	}
	m.mu.Lock()
	delete(m.sets, memoKey{orgID: orgID, userID: userID})
	m.mu.Unlock()
}

// ForgetOrg drops every memoized set for orgID.
func ForgetOrg(ctx context.Context, orgID uuid.UUID) {
	m, ok := ctx.Value(memoCtxKey{}).(*memo)
	if !ok {
		return
	}
	m.mu.Lock()
	for k := range m.sets {
		if k.orgID == orgID {
			delete(m.sets, k)
		}
	}
	m.mu.Unlock()
}

// MemoMiddleware installs a fresh memo on every request.
func MemoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithMemo(r.Context())))
	})
}
