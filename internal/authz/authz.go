// Package authz tracks which health categories the user shares with pulse.
package authz

import (
	"context"
	"sync"

	"github.com/matheuskafuri/pulse/internal/health"
)

// Status is the per-category sharing state reported by the exporter.
type Status int

const (
	NotDetermined Status = iota
	Denied
	Authorized
)

func (s Status) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	default:
		return "not_determined"
	}
}

// Gate answers per-category authorization questions without blocking.
type Gate interface {
	Status(cat health.Category) Status
	RefreshPermissionStates(ctx context.Context) error
}

// PermissionSource re-queries the live permission state.
// *exporter.Client satisfies this.
type PermissionSource interface {
	Permissions(ctx context.Context) (map[string]string, error)
}

// SnapshotGate caches the exporter's permission map and answers reads
// from the snapshot. Categories forced off in config always read Denied.
type SnapshotGate struct {
	source   PermissionSource
	disabled map[health.Category]bool

	mu       sync.RWMutex
	snapshot map[health.Category]Status
}

func NewSnapshotGate(source PermissionSource, disabled []health.Category) *SnapshotGate {
	off := make(map[health.Category]bool, len(disabled))
	for _, c := range disabled {
		off[c] = true
	}
	return &SnapshotGate{
		source:   source,
		disabled: off,
		snapshot: make(map[health.Category]Status),
	}
}

// Status reads the cached snapshot. Unknown categories are NotDetermined.
func (g *SnapshotGate) Status(cat health.Category) Status {
	if g.disabled[cat] {
		return Denied
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot[cat]
}

// RefreshPermissionStates re-queries the exporter and swaps the snapshot.
// On error the previous snapshot stays in place.
func (g *SnapshotGate) RefreshPermissionStates(ctx context.Context) error {
	perms, err := g.source.Permissions(ctx)
	if err != nil {
		return err
	}

	next := make(map[health.Category]Status, len(perms))
	for name, state := range perms {
		cat, err := health.ParseCategory(name)
		if err != nil {
			continue
		}
		next[cat] = parseStatus(state)
	}

	g.mu.Lock()
	g.snapshot = next
	g.mu.Unlock()
	return nil
}

func parseStatus(s string) Status {
	switch s {
	case "authorized", "granted":
		return Authorized
	case "denied":
		return Denied
	default:
		return NotDetermined
	}
}

// StaticGate serves a fixed permission map. Used in tests and as the
// offline default when the exporter has no permissions endpoint.
type StaticGate map[health.Category]Status

func (g StaticGate) Status(cat health.Category) Status {
	return g[cat]
}

func (g StaticGate) RefreshPermissionStates(ctx context.Context) error {
	return nil
}
