package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/mail"
	"github.com/spec-kit/lead-service/internal/repository"
)

type fakeVerifier struct {
	err   error
	calls int
}

func (f *fakeVerifier) Verify(context.Context, string, string) error {
	f.calls++
	return f.err
}

type fakeSender struct {
	mu      sync.Mutex
	enabled bool
	err     error
	sent    []mail.Message
}

func (f *fakeSender) Enabled() bool { return f.enabled }

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// syncExecutor runs tasks inline so tests can observe handler effects.
type syncExecutor struct{ errs []error }

func (e *syncExecutor) Submit(_ string, fn func(context.Context) error) bool {
	e.errs = append(e.errs, fn(context.Background()))
	return true
}

type harness struct {
	store    *repository.MemoryStore
	verifier *fakeVerifier
	sender   *fakeSender
	notifier *NotificationService
	intake   *IntakeService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()
	renderer, err := mail.NewRenderer("")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	h := &harness{
		store:    repository.NewMemoryStore(),
		verifier: &fakeVerifier{},
		sender:   &fakeSender{enabled: true},
	}
	dispatcher := events.NewDispatcher(&syncExecutor{}, logger)
	h.notifier = NewNotificationService(dispatcher, renderer, h.sender, logger, nil)
	h.notifier.RegisterHandlers()
	h.intake = NewIntakeService(IntakeDependencies{
		ContactRepo: h.store.Contacts(),
		ProjectRepo: h.store.Projects(),
		CareerRepo:  h.store.Careers(),
		Verifier:    h.verifier,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	return h
}

func ptr(s string) *string { return &s }
