package out

import (
	"context"
	"time"

	"triage_server/core/domain"
)

// ComplaintFilter narrows List results. Zero values match everything.
type ComplaintFilter struct {
	DomainID   domain.DomainID
	Status     domain.Status
	Department string
	Limit      int
}

// ComplaintRepository stores complaint records.
//
// Implementations must return deep copies: callers own what they get and
// repositories own what they keep, so a half-updated record can never be
// observed by a concurrent reader.
type ComplaintRepository interface {
	// Save inserts or replaces a complaint by ID.
	Save(ctx context.Context, c *domain.Complaint) error

	// Update replaces a stored complaint only while its status still
	// matches expected, failing with CONFLICT otherwise. Read-modify-write
	// flows use it so concurrent writers cannot clobber each other.
	Update(ctx context.Context, c *domain.Complaint, expected domain.Status) error

	// Get returns one complaint, NOT_FOUND if the id is unknown.
	Get(ctx context.Context, id int64) (*domain.Complaint, error)

	// List returns complaints matching the filter, most recent first.
	List(ctx context.Context, filter ComplaintFilter) ([]*domain.Complaint, error)

	// Snapshot returns a consistent point-in-time copy of every complaint
	// in a domain, for aggregation.
	Snapshot(ctx context.Context, domainID domain.DomainID) ([]*domain.Complaint, error)

	// CountByCategorySince counts classified complaints in a domain whose
	// top category matches, submitted at or after since.
	CountByCategorySince(ctx context.Context, domainID domain.DomainID, category string, since time.Time) (int, error)
}
