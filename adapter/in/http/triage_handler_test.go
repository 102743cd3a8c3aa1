package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"triage_server/adapter/out/persistence"
	"triage_server/core/domain"
	"triage_server/core/service/analytics"
	"triage_server/core/service/classification"
	"triage_server/core/service/intake"
	"triage_server/core/service/registry"
	"triage_server/infra/middleware"
	"triage_server/pkg/logger"
	"triage_server/pkg/snowflake"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(t *testing.T) (*fiber.App, *intake.Service) {
	t.Helper()

	reg, err := registry.New(domain.BuiltinDomains(), persistence.NewMemorySelectionStore())
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	ids, err := snowflake.NewGenerator(1)
	if err != nil {
		t.Fatalf("snowflake.NewGenerator: %v", err)
	}
	log := logger.New(logger.Config{Level: logger.LevelError, Output: io.Discard})
	repo := persistence.NewMemoryComplaintRepository()
	svc := intake.NewService(repo, reg, classification.NewKeywordModel(), ids, log, 2*time.Second)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	api := app.Group("/api/v1")
	NewDomainHandler(reg).Register(api)
	NewComplaintHandler(svc).Register(api, func(c *fiber.Ctx) error { return c.Next() })
	NewAnalyticsHandler(analytics.NewService(repo, reg)).Register(api)
	NewHealthHandler("test").Register(app)

	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func selectDomain(t *testing.T, app *fiber.App, id string) {
	t.Helper()
	status, env := doJSON(t, app, "PUT", "/api/v1/domains/active", fiber.Map{"domain_id": id})
	if status != nethttp.StatusOK || !env.Success {
		t.Fatalf("select domain: status %d, env %+v", status, env)
	}
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	status, env := doJSON(t, app, "GET", "/health", nil)
	if status != nethttp.StatusOK || !env.Success {
		t.Errorf("health: status %d, env %+v", status, env)
	}
}

func TestDomainRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := doJSON(t, app, "GET", "/api/v1/domains", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("list domains: status %d", status)
	}
	var configs []domain.DomainConfig
	if err := json.Unmarshal(env.Data, &configs); err != nil {
		t.Fatalf("decode domains: %v", err)
	}
	if len(configs) != 3 {
		t.Errorf("domains = %d, want 3", len(configs))
	}

	// No selection yet.
	status, env = doJSON(t, app, "GET", "/api/v1/domains/active", nil)
	if status != nethttp.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("active before selection: status %d, env %+v", status, env)
	}

	// Unknown selection is rejected.
	status, env = doJSON(t, app, "PUT", "/api/v1/domains/active", fiber.Map{"domain_id": "starbase"})
	if status != nethttp.StatusNotFound {
		t.Errorf("select unknown: status %d", status)
	}

	selectDomain(t, app, "hospital")

	status, env = doJSON(t, app, "GET", "/api/v1/domains/active", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("active: status %d", status)
	}
	var active domain.DomainConfig
	if err := json.Unmarshal(env.Data, &active); err != nil {
		t.Fatalf("decode active: %v", err)
	}
	if active.ID != domain.DomainHospital {
		t.Errorf("active = %v, want hospital", active.ID)
	}
}

func TestComplaintLifecycleOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	selectDomain(t, app, "college")

	submit := fiber.Map{
		"title":        "Fan not working in LH-3",
		"description":  "The ceiling fan in lecture hall LH-3 has been broken for 4 days.",
		"submitted_by": "Ravi",
		"user_type":    "Student",
	}
	status, env := doJSON(t, app, "POST", "/api/v1/complaints", submit)
	if status != nethttp.StatusAccepted {
		t.Fatalf("submit: status %d, env %+v", status, env)
	}

	var created domain.Complaint
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode complaint: %v", err)
	}
	if created.Status != domain.StatusAnalyzing {
		t.Errorf("status = %v, want Analyzing", created.Status)
	}

	// Run classification explicitly (the worker pool is not wired in tests).
	path := fmt.Sprintf("/api/v1/complaints/%d/analyze", created.ID)
	status, env = doJSON(t, app, "POST", path, nil)
	if status != nethttp.StatusOK {
		t.Fatalf("analyze: status %d, env %+v", status, env)
	}
	var analyzed domain.Complaint
	if err := json.Unmarshal(env.Data, &analyzed); err != nil {
		t.Fatalf("decode analyzed: %v", err)
	}
	if analyzed.Status != domain.StatusPending {
		t.Errorf("status = %v, want Pending", analyzed.Status)
	}
	if analyzed.Analysis == nil || analyzed.Analysis.Department != "Maintenance & Facilities" {
		t.Errorf("analysis = %+v, want routed to Maintenance & Facilities", analyzed.Analysis)
	}

	// Resolve through a transition.
	path = fmt.Sprintf("/api/v1/complaints/%d/transition", created.ID)
	status, _ = doJSON(t, app, "POST", path, fiber.Map{"status": "Resolved"})
	if status != nethttp.StatusOK {
		t.Fatalf("transition: status %d", status)
	}

	// Terminal state rejects further transitions.
	status, env = doJSON(t, app, "POST", path, fiber.Map{"status": "In Progress"})
	if status != nethttp.StatusConflict || env.Error == nil || env.Error.Code != "INVALID_STATE_TRANSITION" {
		t.Errorf("transition from resolved: status %d, env %+v", status, env)
	}

	// Stats and analytics see the record.
	status, env = doJSON(t, app, "GET", "/api/v1/complaints/stats", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("stats: status %d", status)
	}
	status, env = doJSON(t, app, "GET", "/api/v1/analytics", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("analytics: status %d", status)
	}
	var snapshot domain.AnalyticsSnapshot
	if err := json.Unmarshal(env.Data, &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Total != 1 || snapshot.Resolved != 1 {
		t.Errorf("snapshot total/resolved = %d/%d, want 1/1", snapshot.Total, snapshot.Resolved)
	}
}

func TestComplaintErrorTranslation(t *testing.T) {
	app, _ := newTestApp(t)

	// Submission without an active domain.
	status, env := doJSON(t, app, "POST", "/api/v1/complaints", fiber.Map{
		"title": "t", "description": "d", "submitted_by": "r", "user_type": "Student",
	})
	if status != nethttp.StatusBadRequest || env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Errorf("no active domain: status %d, env %+v", status, env)
	}

	selectDomain(t, app, "college")

	status, env = doJSON(t, app, "GET", "/api/v1/complaints/notanumber", nil)
	if status != nethttp.StatusBadRequest || env.Error == nil || env.Error.Code != "INVALID_INPUT" {
		t.Errorf("bad id: status %d, env %+v", status, env)
	}

	status, env = doJSON(t, app, "GET", "/api/v1/complaints/12345", nil)
	if status != nethttp.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("missing complaint: status %d, env %+v", status, env)
	}

	status, env = doJSON(t, app, "POST", "/api/v1/complaints", fiber.Map{
		"title": "t", "description": "d", "submitted_by": "r", "user_type": "Patient",
	})
	if status != nethttp.StatusBadRequest || env.Error == nil || env.Error.Code != "INVALID_INPUT" {
		t.Errorf("foreign user type: status %d, env %+v", status, env)
	}

	status, env = doJSON(t, app, "GET", "/api/v1/analytics?from=yesterday", nil)
	if status != nethttp.StatusBadRequest {
		t.Errorf("bad window: status %d", status)
	}
}

func TestRouterErrorsKeepStatus(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := doJSON(t, app, "GET", "/api/v1/nowhere", nil)
	if status != nethttp.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unknown route: status %d, env %+v", status, env)
	}

	status, env = doJSON(t, app, "DELETE", "/api/v1/domains", nil)
	if status != nethttp.StatusMethodNotAllowed || env.Error == nil || env.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("disallowed method: status %d, env %+v", status, env)
	}
}
