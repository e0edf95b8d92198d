package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/lead-service/internal/config"
)

func newSiteverify(t *testing.T, handler func(req siteverifyRequest) (int, siteverifyResponse)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req siteverifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		status, resp := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyBypassWithoutSecret(t *testing.T) {
	t.Parallel()

	v := NewTurnstileVerifier(config.CaptchaConfig{}, zaptest.NewLogger(t), nil)
	if v.Enabled() {
		t.Fatal("expected verifier disabled")
	}
	if err := v.Verify(context.Background(), "", ""); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	t.Parallel()

	v := NewTurnstileVerifier(config.CaptchaConfig{SecretKey: "s", VerifyURL: "http://127.0.0.1:1"}, zaptest.NewLogger(t), nil)
	err := v.Verify(context.Background(), " ", "")
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("Verify = %v, want ErrMissingToken", err)
	}
}

func TestVerifySuccess(t *testing.T) {
	t.Parallel()

	srv := newSiteverify(t, func(req siteverifyRequest) (int, siteverifyResponse) {
		if req.Secret != "secret" || req.Response != "good" || req.RemoteIP != "203.0.113.9" {
			return http.StatusOK, siteverifyResponse{Success: false, ErrorCodes: []string{"bad-request"}}
		}
		return http.StatusOK, siteverifyResponse{Success: true}
	})

	v := NewTurnstileVerifier(config.CaptchaConfig{SecretKey: "secret", VerifyURL: srv.URL, Timeout: 2 * time.Second}, zaptest.NewLogger(t), nil)
	if err := v.Verify(context.Background(), "good", "203.0.113.9"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectedCarriesCodes(t *testing.T) {
	t.Parallel()

	srv := newSiteverify(t, func(siteverifyRequest) (int, siteverifyResponse) {
		return http.StatusOK, siteverifyResponse{Success: false, ErrorCodes: []string{"invalid-input-response"}}
	})

	v := NewTurnstileVerifier(config.CaptchaConfig{SecretKey: "secret", VerifyURL: srv.URL, Timeout: 2 * time.Second}, zaptest.NewLogger(t), nil)
	err := v.Verify(context.Background(), "bad", "")
	var verr *VerificationError
	if !errors.As(err, &verr) {
		t.Fatalf("Verify = %v, want VerificationError", err)
	}
	if len(verr.Codes) != 1 || verr.Codes[0] != "invalid-input-response" {
		t.Fatalf("codes = %v", verr.Codes)
	}
}

func TestVerifyFailsClosedWhenUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	v := NewTurnstileVerifier(config.CaptchaConfig{SecretKey: "secret", VerifyURL: url, Timeout: time.Second}, zaptest.NewLogger(t), nil)
	if err := v.Verify(context.Background(), "token", ""); err == nil {
		t.Fatal("expected error when service is unreachable")
	}
}

func TestVerifyHonorsContextDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	v := NewTurnstileVerifier(config.CaptchaConfig{SecretKey: "secret", VerifyURL: srv.URL, Timeout: 10 * time.Second}, zaptest.NewLogger(t), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := v.Verify(ctx, "good", "")
	if err == nil {
		t.Fatal("expected verification to fail once the deadline passed")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Verify took %s, want it bounded by the context deadline", elapsed)
	}
}

func TestAgentTimeout(t *testing.T) {
	t.Parallel()

	if got := agentTimeout(context.Background(), 3*time.Second); got != 3*time.Second {
		t.Fatalf("no deadline: got %s", got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if got := agentTimeout(ctx, 10*time.Second); got > time.Second {
		t.Fatalf("deadline sooner than timeout: got %s", got)
	}
	if got := agentTimeout(ctx, 0); got <= 0 || got > time.Second {
		t.Fatalf("no configured timeout: got %s", got)
	}
}
