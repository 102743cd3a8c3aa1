package in

import (
	"context"

	"triage_server/core/domain"
)

// SubmitComplaintInput is the submission payload from the intake boundary.
type SubmitComplaintInput struct {
	Title       string
	Description string
	SubmittedBy string
	UserType    domain.UserType
}

// ComplaintStats are the dashboard counters.
type ComplaintStats struct {
	Total    int                 `json:"total"`
	Pending  int                 `json:"pending"`
	Resolved int                 `json:"resolved"`
	Critical int                 `json:"critical"`
	Recent   []*domain.Complaint `json:"recent"`
}

// DomainUseCase exposes the domain registry to inbound adapters.
type DomainUseCase interface {
	List() []domain.DomainConfig
	Get(id domain.DomainID) (*domain.DomainConfig, error)
	Active() *domain.DomainConfig
	SetActive(ctx context.Context, id domain.DomainID) (*domain.DomainConfig, error)
}

// ComplaintUseCase exposes complaint intake and lifecycle operations.
type ComplaintUseCase interface {
	// Submit records a new complaint in the active domain and queues it
	// for analysis. The returned record is in status Analyzing.
	Submit(ctx context.Context, input SubmitComplaintInput) (*domain.Complaint, error)

	// Analyze classifies a complaint in status Analyzing and attaches the
	// result and action plan.
	Analyze(ctx context.Context, id int64) (*domain.Complaint, error)

	Get(ctx context.Context, id int64) (*domain.Complaint, error)
	List(ctx context.Context, status domain.Status, department string) ([]*domain.Complaint, error)

	// Transition applies an externally driven status change (including
	// the terminal Resolved state).
	Transition(ctx context.Context, id int64, next domain.Status) (*domain.Complaint, error)

	Stats(ctx context.Context) (*ComplaintStats, error)
}

// AnalyticsUseCase exposes the on-demand analytics snapshot.
type AnalyticsUseCase interface {
	Snapshot(ctx context.Context, window domain.TimeRange) (*domain.AnalyticsSnapshot, error)
}
