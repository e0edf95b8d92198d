package captcha

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/observability"
)

// Verifier checks a CAPTCHA token for a client.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// ErrMissingToken is reported when verification is enabled and no token was sent.
var ErrMissingToken = errors.New("CAPTCHA token is required")

// VerificationError carries the error codes reported by the verification service.
type VerificationError struct {
	Codes []string
	Err   error
}

func (e *VerificationError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("captcha verification failed: %v", e.Err)
	case len(e.Codes) > 0:
		return "captcha verification failed: " + strings.Join(e.Codes, ", ")
	}
	return "captcha verification failed"
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

type siteverifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
	RemoteIP string `json:"remoteip,omitempty"`
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
	Hostname   string   `json:"hostname"`
}

// TurnstileVerifier validates tokens against Cloudflare Turnstile.
type TurnstileVerifier struct {
	cfg     config.CaptchaConfig
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewTurnstileVerifier builds a verifier. With no secret configured every
// token, including an empty one, is accepted.
func NewTurnstileVerifier(cfg config.CaptchaConfig, logger *zap.Logger, metrics *observability.Metrics) *TurnstileVerifier {
	if cfg.SecretKey == "" {
		logger.Warn("CLOUDFLARE_TURNSTILE_SECRET_KEY not set; skipping CAPTCHA verification")
	}
	return &TurnstileVerifier{cfg: cfg, logger: logger, metrics: metrics}
}

// Enabled reports whether tokens are checked remotely.
func (v *TurnstileVerifier) Enabled() bool {
	return v.cfg.SecretKey != ""
}

// Verify fails closed on transport errors and unsuccessful responses.
func (v *TurnstileVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Enabled() {
		v.metrics.RecordCaptcha("bypassed")
		return nil
	}
	if strings.TrimSpace(token) == "" {
		v.metrics.RecordCaptcha("missing")
		return &VerificationError{Err: ErrMissingToken}
	}
	if err := ctx.Err(); err != nil {
		return &VerificationError{Err: err}
	}

	agent := fiber.Post(v.cfg.VerifyURL).
		JSON(siteverifyRequest{Secret: v.cfg.SecretKey, Response: token, RemoteIP: remoteIP})
	if timeout := agentTimeout(ctx, v.cfg.Timeout); timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		v.metrics.RecordCaptcha("error")
		return &VerificationError{Err: err}
	}

	var out siteverifyResponse
	status, _, errs := agent.Struct(&out)
	if len(errs) > 0 {
		v.metrics.RecordCaptcha("error")
		v.logger.Warn("turnstile request failed", zap.Errors("errors", errs))
		return &VerificationError{Err: errors.Join(errs...)}
	}
	if status != fiber.StatusOK {
		v.metrics.RecordCaptcha("error")
		return &VerificationError{Codes: out.ErrorCodes, Err: fmt.Errorf("siteverify returned status %d", status)}
	}
	if !out.Success {
		v.metrics.RecordCaptcha("rejected")
		v.logger.Info("turnstile rejected token", zap.Strings("error_codes", out.ErrorCodes))
		return &VerificationError{Codes: out.ErrorCodes}
	}

	v.metrics.RecordCaptcha("ok")
	return nil
}

// agentTimeout bounds the request by the configured timeout and by ctx's
// deadline, whichever is sooner. fiber.Agent does not observe ctx directly.
func agentTimeout(ctx context.Context, configured time.Duration) time.Duration {
	dl, ok := ctx.Deadline()
	if !ok {
		return configured
	}
	left := time.Until(dl)
	if left < time.Millisecond {
		left = time.Millisecond
	}
	if configured <= 0 || left < configured {
		return left
	}
	return configured
}
