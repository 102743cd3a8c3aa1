// Package persistence provides the outbound storage adapters: the in-memory
// complaint store and the Redis-backed domain selection store.
package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
)

// MemoryComplaintRepository is a process-local ComplaintRepository. All
// reads hand out deep copies, so snapshots stay consistent while writers
// keep mutating.
type MemoryComplaintRepository struct {
	mu    sync.RWMutex
	items map[int64]*domain.Complaint
}

// NewMemoryComplaintRepository creates an empty repository.
func NewMemoryComplaintRepository() *MemoryComplaintRepository {
	return &MemoryComplaintRepository{items: make(map[int64]*domain.Complaint)}
}

// Save upserts the complaint. The stored record is a copy; later mutations
// of c are not visible until the next Save.
func (r *MemoryComplaintRepository) Save(_ context.Context, c *domain.Complaint) error {
	if c == nil || c.ID == 0 {
		return apperr.BadRequest("complaint has no id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c.Clone()
	return nil
}

// Update replaces the stored complaint while its status still matches
// expected. A status mismatch means another writer got there first and
// fails with CONFLICT, leaving the stored record untouched.
func (r *MemoryComplaintRepository) Update(_ context.Context, c *domain.Complaint, expected domain.Status) error {
	if c == nil || c.ID == 0 {
		return apperr.BadRequest("complaint has no id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[c.ID]
	if !ok {
		return apperr.NotFound("complaint").WithDetail("id", c.ID)
	}
	if stored.Status != expected {
		return apperr.Conflict("complaint was modified concurrently").
			WithDetail("status", string(stored.Status))
	}
	r.items[c.ID] = c.Clone()
	return nil
}

// Get returns a copy of the complaint, NOT_FOUND when absent.
func (r *MemoryComplaintRepository) Get(_ context.Context, id int64) (*domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("complaint").WithDetail("id", id)
	}
	return c.Clone(), nil
}

// List returns matching complaints, newest first. A zero filter field means
// "any"; Limit 0 means unbounded.
func (r *MemoryComplaintRepository) List(_ context.Context, filter out.ComplaintFilter) ([]*domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Complaint, 0, len(r.items))
	for _, c := range r.items {
		if !matches(c, filter) {
			continue
		}
		result = append(result, c.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].SubmittedAt.Equal(result[j].SubmittedAt) {
			return result[i].SubmittedAt.After(result[j].SubmittedAt)
		}
		return result[i].ID > result[j].ID
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Snapshot returns copies of every complaint in the domain.
func (r *MemoryComplaintRepository) Snapshot(ctx context.Context, domainID domain.DomainID) ([]*domain.Complaint, error) {
	return r.List(ctx, out.ComplaintFilter{DomainID: domainID})
}

// CountByCategorySince counts classified complaints in the domain whose top
// category matches, submitted after since.
func (r *MemoryComplaintRepository) CountByCategorySince(_ context.Context, domainID domain.DomainID, category string, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.items {
		if c.DomainID != domainID || !c.IsClassified() {
			continue
		}
		if c.Analysis.TopCategory() == category && c.SubmittedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func matches(c *domain.Complaint, filter out.ComplaintFilter) bool {
	if filter.DomainID != "" && c.DomainID != filter.DomainID {
		return false
	}
	if filter.Status != "" && c.Status != filter.Status {
		return false
	}
	if filter.Department != "" {
		if !c.IsClassified() || c.Analysis.Department != filter.Department {
			return false
		}
	}
	return true
}
