// Package registry holds the institution domain configurations and the
// process-wide active domain selection.
package registry

import (
	"context"
	"fmt"
	"sync/atomic"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"
)

// Registry is the domain configuration registry. Configs are immutable after
// construction; the active selection is the only mutable state and is held
// in an atomically swapped pointer (single writer, many readers, no locks on
// the read path).
type Registry struct {
	ordered []domain.DomainConfig
	byID    map[domain.DomainID]*domain.DomainConfig

	active atomic.Pointer[domain.DomainConfig]
	store  out.DomainSelectionStore
}

// New builds a registry from the given configs. IDs must be unique and each
// config must pass validation.
func New(configs []domain.DomainConfig, store out.DomainSelectionStore) (*Registry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("registry: no domain configs")
	}

	r := &Registry{
		ordered: configs,
		byID:    make(map[domain.DomainID]*domain.DomainConfig, len(configs)),
		store:   store,
	}

	for i := range configs {
		cfg := &r.ordered[i]
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[cfg.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate domain id %q", cfg.ID)
		}
		r.byID[cfg.ID] = cfg
	}

	return r, nil
}

// Restore loads a previously persisted selection from the store. An absent
// or stale selection leaves the registry without an active domain; the host
// must then run the domain-selection flow before classification.
func (r *Registry) Restore(ctx context.Context) {
	if r.store == nil {
		return
	}

	id, err := r.store.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("[Registry] Failed to load persisted domain selection")
		return
	}
	if id == "" {
		return
	}

	cfg, ok := r.byID[id]
	if !ok {
		logger.Warn("[Registry] Persisted domain %q no longer exists, ignoring", id)
		return
	}

	r.active.Store(cfg)
	logger.Info("[Registry] Restored active domain: %s", id)
}

// List returns all domain configs in declaration order, as deep copies.
func (r *Registry) List() []domain.DomainConfig {
	result := make([]domain.DomainConfig, 0, len(r.ordered))
	for i := range r.ordered {
		result = append(result, *r.ordered[i].Clone())
	}
	return result
}

// Get returns the config for id, NOT_FOUND when unknown.
func (r *Registry) Get(id domain.DomainID) (*domain.DomainConfig, error) {
	cfg, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("domain").WithDetail("id", string(id))
	}
	return cfg.Clone(), nil
}

// Active returns the current active domain config, or nil when unset.
func (r *Registry) Active() *domain.DomainConfig {
	return r.active.Load().Clone()
}

// SetActive selects the active domain and persists the selection.
// Unknown ids fail with NOT_FOUND and leave the active domain unchanged.
// Re-selecting the current domain is a no-op beyond persistence.
func (r *Registry) SetActive(ctx context.Context, id domain.DomainID) (*domain.DomainConfig, error) {
	cfg, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("domain").WithDetail("id", string(id))
	}

	if current := r.active.Load(); current == nil || current.ID != id {
		r.active.Store(cfg)
	}

	if r.store != nil {
		if err := r.store.Store(ctx, id); err != nil {
			// Selection took effect in-process; persistence is best-effort.
			logger.WithError(err).Warn("[Registry] Failed to persist domain selection")
		}
	}

	return cfg.Clone(), nil
}
