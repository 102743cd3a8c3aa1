package out

import (
	"context"

	"triage_server/core/domain"
)

// SelectedDomainKey is the single well-known key under which the host
// environment persists the active domain selection.
const SelectedDomainKey = "selectedDomain"

// DomainSelectionStore persists the active domain id across sessions.
// It is the only durable state the core expects from its host.
type DomainSelectionStore interface {
	// Load returns the persisted selection, or "" when none exists yet.
	Load(ctx context.Context) (domain.DomainID, error)

	// Store persists the selection.
	Store(ctx context.Context, id domain.DomainID) error
}
