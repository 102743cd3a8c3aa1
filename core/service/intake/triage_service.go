// Package intake implements the complaint lifecycle use case: submission,
// classification orchestration, status transitions and dashboard stats.
package intake

import (
	"context"
	"sort"
	"strings"
	"time"

	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/core/port/out"
	"triage_server/core/service/classification"
	"triage_server/core/service/routing"
	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"
	"triage_server/pkg/snowflake"
)

const (
	// analysisQueueSize bounds the submit-to-analyze backlog. When the
	// queue is full the submitter falls back to synchronous analysis.
	analysisQueueSize = 1024

	// similarCaseWindow is how far back similar-case counting looks.
	similarCaseWindow = 30 * 24 * time.Hour

	// recentStatsLimit caps the recent-complaints list in dashboard stats.
	recentStatsLimit = 5
)

// Service implements in.ComplaintUseCase.
type Service struct {
	repo    out.ComplaintRepository
	domains in.DomainUseCase
	engine  *classification.Engine
	model   out.ScoringModel
	planner *routing.Planner
	ids     *snowflake.Generator
	log     *logger.Logger

	scoringTimeout time.Duration
	pending        chan int64
	now            func() time.Time
}

// NewService creates the intake service. scoringTimeout bounds each
// classification call against the scoring model.
func NewService(
	repo out.ComplaintRepository,
	domains in.DomainUseCase,
	model out.ScoringModel,
	ids *snowflake.Generator,
	log *logger.Logger,
	scoringTimeout time.Duration,
) *Service {
	return &Service{
		repo:           repo,
		domains:        domains,
		engine:         classification.NewEngine(),
		model:          model,
		planner:        routing.NewPlanner(),
		ids:            ids,
		log:            log,
		scoringTimeout: scoringTimeout,
		pending:        make(chan int64, analysisQueueSize),
		now:            time.Now,
	}
}

// PendingAnalyses exposes the submit-to-analyze queue drained by the
// analyzer worker pool.
func (s *Service) PendingAnalyses() <-chan int64 {
	return s.pending
}

// Submit validates the input against the active domain, persists the new
// complaint and queues it for analysis. The returned record is in status
// Analyzing.
func (s *Service) Submit(ctx context.Context, input in.SubmitComplaintInput) (*domain.Complaint, error) {
	active := s.domains.Active()
	if active == nil {
		return nil, apperr.BadRequest("no active domain selected")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	submittedBy := strings.TrimSpace(input.SubmittedBy)
	switch {
	case title == "":
		return nil, apperr.MissingField("title")
	case description == "":
		return nil, apperr.MissingField("description")
	case submittedBy == "":
		return nil, apperr.MissingField("submitted_by")
	}
	if !active.HasUserType(input.UserType) {
		return nil, apperr.InvalidInput("user_type",
			"not a reporter type of the active domain")
	}

	id, err := s.ids.Generate()
	if err != nil {
		return nil, apperr.InternalWithError(err)
	}

	c := &domain.Complaint{
		ID:          id,
		Title:       title,
		Description: description,
		SubmittedBy: submittedBy,
		UserType:    input.UserType,
		DomainID:    active.ID,
		Status:      domain.StatusSubmitted,
		SubmittedAt: s.now().UTC(),
	}
	c.Status = domain.StatusAnalyzing

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]any{
		"complaint": c.Ref(),
		"domain":    string(c.DomainID),
		"user_type": string(c.UserType),
	}).Info("complaint submitted")

	select {
	case s.pending <- c.ID:
	default:
		// Queue saturated; classify inline so the record never stalls
		// in Analyzing.
		s.log.WithField("complaint", c.Ref()).Warn("analysis queue full, classifying inline")
		if analyzed, err := s.Analyze(ctx, c.ID); err == nil {
			return analyzed, nil
		} else {
			s.log.WithField("complaint", c.Ref()).WithError(err).Error("inline analysis failed")
		}
	}

	return c, nil
}

// Analyze classifies a complaint in status Analyzing, attaches the result
// and action plan and moves it to Pending. A routing gap still lands the
// complaint in Pending, flagged for manual department assignment. On model
// unavailability the complaint stays in Analyzing and the error is returned
// for the caller to retry.
func (s *Service) Analyze(ctx context.Context, id int64) (*domain.Complaint, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	readStatus := c.Status

	cfg, err := s.domains.Get(c.DomainID)
	if err != nil {
		return nil, err
	}

	scoreCtx, cancel := context.WithTimeout(ctx, s.scoringTimeout)
	defer cancel()

	result, err := s.engine.Classify(scoreCtx, c, cfg, s.model)
	switch {
	case err == nil:
	case apperr.IsCode(err, apperr.CodeRoutingGap):
		c.NeedsManualRouting = true
		s.log.WithFields(map[string]any{
			"complaint": c.Ref(),
			"category":  result.TopCategory(),
		}).Warn("no department mapping, complaint needs manual routing")
	default:
		return nil, err
	}

	result.SimilarCases = s.countSimilarCases(ctx, c, result)
	c.Analysis = result
	if plan := s.planner.Build(result); plan != nil {
		c.ActionPlan = plan
	}
	c.Status = domain.StatusPending

	// Guarded write: a concurrent analyzer (inline submit vs worker pool)
	// that finished first wins, the loser fails with CONFLICT.
	if err := s.repo.Update(ctx, c, readStatus); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]any{
		"complaint":  c.Ref(),
		"category":   result.TopCategory(),
		"severity":   string(result.Severity),
		"priority":   string(result.Priority),
		"department": result.Department,
		"model":      result.ModelUsed,
	}).Info("complaint classified")

	return c, nil
}

// countSimilarCases counts recent complaints sharing the top category.
// Counting failures degrade to zero; they never fail the classification.
func (s *Service) countSimilarCases(ctx context.Context, c *domain.Complaint, result *domain.ClassificationResult) int {
	top := result.TopCategory()
	if top == "" {
		return 0
	}
	n, err := s.repo.CountByCategorySince(ctx, c.DomainID, top, s.now().Add(-similarCaseWindow))
	if err != nil {
		s.log.WithField("complaint", c.Ref()).WithError(err).Warn("similar case count failed")
		return 0
	}
	return n
}

// Get returns one complaint by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Complaint, error) {
	return s.repo.Get(ctx, id)
}

// List returns complaints of the active domain, optionally filtered by
// status and routed department.
func (s *Service) List(ctx context.Context, status domain.Status, department string) ([]*domain.Complaint, error) {
	active := s.domains.Active()
	if active == nil {
		return nil, apperr.BadRequest("no active domain selected")
	}
	if status != "" && !status.IsValid() {
		return nil, apperr.InvalidInput("status", "unknown status value")
	}

	return s.repo.List(ctx, out.ComplaintFilter{
		DomainID:   active.ID,
		Status:     status,
		Department: department,
	})
}

// Transition applies an externally driven status change. Pending,
// In Progress and Under Review require an attached analysis; Resolved
// additionally requires an action plan set and stamps the resolution time.
func (s *Service) Transition(ctx context.Context, id int64, next domain.Status) (*domain.Complaint, error) {
	if !next.IsValid() {
		return nil, apperr.InvalidInput("status", "unknown status value")
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	readStatus := c.Status
	if !readStatus.CanTransitionTo(next) {
		return nil, apperr.InvalidStateTransition(string(readStatus), string(next))
	}

	switch next {
	case domain.StatusPending, domain.StatusInProgress, domain.StatusUnderReview:
		if !c.IsClassified() {
			return nil, apperr.InvalidStateTransition(string(c.Status), string(next)).
				WithDetail("reason", "complaint has no classification yet")
		}
	case domain.StatusResolved:
		if !c.IsClassified() {
			return nil, apperr.InvalidStateTransition(string(c.Status), string(next)).
				WithDetail("reason", "complaint has no classification yet")
		}
		if !c.HasActionPlan() {
			return nil, apperr.InvalidStateTransition(string(c.Status), string(next)).
				WithDetail("reason", "no action plan set")
		}
	}

	c.Status = next
	if next == domain.StatusResolved {
		at := s.now().UTC()
		c.ResolvedAt = &at
	}

	// Guarded write: when two transitions race off the same read, the
	// second write fails with CONFLICT instead of clobbering the first.
	if err := s.repo.Update(ctx, c, readStatus); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]any{
		"complaint": c.Ref(),
		"status":    string(next),
	}).Info("complaint transitioned")

	return c, nil
}

// Stats computes the dashboard counters for the active domain. Pending
// counts every classified complaint still awaiting resolution.
func (s *Service) Stats(ctx context.Context) (*in.ComplaintStats, error) {
	active := s.domains.Active()
	if active == nil {
		return nil, apperr.BadRequest("no active domain selected")
	}

	complaints, err := s.repo.Snapshot(ctx, active.ID)
	if err != nil {
		return nil, err
	}

	stats := &in.ComplaintStats{}
	for _, c := range complaints {
		stats.Total++
		switch c.Status {
		case domain.StatusPending, domain.StatusInProgress, domain.StatusUnderReview:
			stats.Pending++
		case domain.StatusResolved:
			stats.Resolved++
		}
		if c.IsClassified() && c.Analysis.Severity == domain.SeverityCritical {
			stats.Critical++
		}
	}

	sort.Slice(complaints, func(i, j int) bool {
		return complaints[i].SubmittedAt.After(complaints[j].SubmittedAt)
	})
	if len(complaints) > recentStatsLimit {
		complaints = complaints[:recentStatsLimit]
	}
	stats.Recent = complaints

	return stats, nil
}
