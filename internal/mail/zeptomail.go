package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-service/internal/config"
)

// ErrDisabled is returned when no mail credentials are configured.
var ErrDisabled = errors.New("mail delivery not configured")

// Message is a rendered email addressed to the configured recipients.
type Message struct {
	Subject string
	HTML    string
}

// Sender delivers rendered messages.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, msg Message) error
}

type address struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type recipient struct {
	EmailAddress address `json:"email_address"`
}

type sendRequest struct {
	From     address     `json:"from"`
	To       []recipient `json:"to"`
	Subject  string      `json:"subject"`
	HTMLBody string      `json:"htmlbody"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ZeptoMailClient sends through the ZeptoMail REST API.
type ZeptoMailClient struct {
	cfg config.MailConfig
}

// NewZeptoMailClient builds a client for cfg.
func NewZeptoMailClient(cfg config.MailConfig) *ZeptoMailClient {
	return &ZeptoMailClient{cfg: cfg}
}

// Enabled reports whether an API key and at least one recipient are configured.
func (c *ZeptoMailClient) Enabled() bool {
	return c.cfg.Enabled()
}

func (c *ZeptoMailClient) authorization() string {
	key := strings.TrimSpace(c.cfg.APIKey)
	if strings.HasPrefix(key, "Zoho-enczapikey") {
		return key
	}
	return "Zoho-enczapikey " + key
}

// Send posts msg and fails on transport errors or non-2xx responses.
func (c *ZeptoMailClient) Send(ctx context.Context, msg Message) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := sendRequest{
		From:     address{Address: c.cfg.FromEmail, Name: c.cfg.FromName},
		Subject:  msg.Subject,
		HTMLBody: msg.HTML,
	}
	for _, to := range c.cfg.To {
		req.To = append(req.To, recipient{EmailAddress: address{Address: strings.TrimSpace(to)}})
	}

	agent := fiber.Post(c.cfg.APIURL).
		Set(fiber.HeaderAuthorization, c.authorization()).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
		JSON(req)
	if timeout := agentTimeout(ctx, c.cfg.Timeout); timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("zeptomail request: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("zeptomail request: %w", errors.Join(errs...))
	}
	if status < 200 || status >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("zeptomail: status %d: %s: %s", status, apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("zeptomail: status %d", status)
	}
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
