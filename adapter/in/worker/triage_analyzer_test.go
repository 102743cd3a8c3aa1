package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/pkg/apperr"
)

// stubComplaints records Analyze calls and returns scripted outcomes.
type stubComplaints struct {
	mu       sync.Mutex
	analyzed []int64
	fail     map[int64]error
	done     chan int64
}

func newStubComplaints() *stubComplaints {
	return &stubComplaints{fail: map[int64]error{}, done: make(chan int64, 16)}
}

func (s *stubComplaints) Analyze(_ context.Context, id int64) (*domain.Complaint, error) {
	s.mu.Lock()
	s.analyzed = append(s.analyzed, id)
	err := s.fail[id]
	s.mu.Unlock()
	s.done <- id
	if err != nil {
		return nil, err
	}
	return &domain.Complaint{ID: id, Status: domain.StatusPending}, nil
}

func (s *stubComplaints) Submit(context.Context, in.SubmitComplaintInput) (*domain.Complaint, error) {
	panic("not used")
}
func (s *stubComplaints) Get(context.Context, int64) (*domain.Complaint, error) { panic("not used") }
func (s *stubComplaints) List(context.Context, domain.Status, string) ([]*domain.Complaint, error) {
	panic("not used")
}
func (s *stubComplaints) Transition(context.Context, int64, domain.Status) (*domain.Complaint, error) {
	panic("not used")
}
func (s *stubComplaints) Stats(context.Context) (*in.ComplaintStats, error) { panic("not used") }

func (s *stubComplaints) calls() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.analyzed))
	copy(out, s.analyzed)
	return out
}

func awaitCalls(t *testing.T, stub *stubComplaints, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-stub.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for call %d of %d", i+1, n)
		}
	}
}

func TestPoolDrainsQueue(t *testing.T) {
	stub := newStubComplaints()
	queue := make(chan int64, 8)
	pool := NewAnalyzerPool(stub, queue, 2)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for _, id := range []int64{1, 2, 3} {
		queue <- id
	}
	awaitCalls(t, stub, 3)

	cancel()
	pool.Wait()

	seen := map[int64]bool{}
	for _, id := range stub.calls() {
		seen[id] = true
	}
	for _, id := range []int64{1, 2, 3} {
		if !seen[id] {
			t.Errorf("complaint %d never analyzed", id)
		}
	}
}

func TestPoolSkipsNonRetryableFailures(t *testing.T) {
	stub := newStubComplaints()
	stub.fail[7] = apperr.NotFound("complaint")
	queue := make(chan int64, 8)
	pool := NewAnalyzerPool(stub, queue, 1)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	queue <- 7
	queue <- 8
	awaitCalls(t, stub, 2)

	cancel()
	pool.Wait()

	calls := stub.calls()
	count := 0
	for _, id := range calls {
		if id == 7 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("non-retryable failure analyzed %d times, want 1", count)
	}
}

func TestPoolStopsOnCancel(t *testing.T) {
	stub := newStubComplaints()
	queue := make(chan int64)
	pool := NewAnalyzerPool(stub, queue, 3)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()

	stopped := make(chan struct{})
	go func() {
		pool.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after cancellation")
	}
}
