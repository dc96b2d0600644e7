package middleware

import (
	"context"
	"maps"
	"regexp"

	"github.com/aretw0/hfsm/pkg/ports"
)

type excludeMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewExcludeMiddleware drops values whose names match any pattern before
// saving. Restore skips names missing from a snapshot, so excluded values
// keep whatever the animator holds when it resumes.
func NewExcludeMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &excludeMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *excludeMiddleware) Save(ctx context.Context, key string, snap *ports.Snapshot) error {
	// Copy so the caller's snapshot is left intact.
	cloned := *snap
	cloned.Values = maps.Clone(snap.Values)
	maps.DeleteFunc(cloned.Values, func(name string, _ any) bool {
		return m.excluded(name)
	})
	return m.next.Save(ctx, key, &cloned)
}

func (m *excludeMiddleware) excluded(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func (m *excludeMiddleware) Load(ctx context.Context, key string) (*ports.Snapshot, error) {
	return m.next.Load(ctx, key)
}

func (m *excludeMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *excludeMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
