package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/hotelops/reclamations-backend/pkg/logger"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendEndpoint = "/v3/mail/send"

// ErrDisabled is returned when no mail provider is configured.
var ErrDisabled = errors.New("mail delivery disabled")

// Message is a single transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns a SendGrid-backed sender, or a logging sender when no API
// key is configured.
func NewSender(cfg config.MailConfig, logg *logger.Logger) (Sender, error) {
	if !cfg.Enabled() {
		return &disabledSender{logg: logg}, nil
	}
	return NewSendGridSender(cfg)
}

// SendGridSender posts messages to the SendGrid v3 API.
type SendGridSender struct {
	apiKey   string
	host     string
	from     *sgmail.Email
	makeCall func(ctx context.Context, req sgRequest) (int, string, error)
}

// NewSendGridSender validates the configuration and builds a sender.
func NewSendGridSender(cfg config.MailConfig) (*SendGridSender, error) {
	if strings.TrimSpace(cfg.SendgridAPIKey) == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, fmt.Errorf("mail from address is required")
	}
	host := strings.TrimRight(cfg.SendgridHost, "/")
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	return &SendGridSender{
		apiKey:   cfg.SendgridAPIKey,
		host:     host,
		from:     sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		makeCall: doSendGridRequest,
	}, nil
}

// Send delivers one message. Non-2xx responses are returned as errors.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}
	to := sgmail.NewEmail("", msg.To)
	body := sgmail.GetRequestBody(sgmail.NewSingleEmail(s.from, msg.Subject, to, "", msg.HTML))

	status, respBody, err := s.makeCall(ctx, sgRequest{
		apiKey: s.apiKey,
		host:   s.host,
		body:   body,
	})
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", status, strings.TrimSpace(respBody))
	}
	return nil
}

type sgRequest struct {
	apiKey string
	host   string
	body   []byte
}

func doSendGridRequest(ctx context.Context, req sgRequest) (int, string, error) {
	request := sendgrid.GetRequest(req.apiKey, sendEndpoint, req.host)
	request.Method = "POST"
	request.Body = req.body
	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, resp.Body, nil
}

type disabledSender struct {
	logg *logger.Logger
}

func (d *disabledSender) Send(ctx context.Context, msg Message) error {
	if d.logg != nil {
		d.logg.Debug(d.logg.WithFields(ctx, map[string]any{
			"to":      msg.To,
			"subject": msg.Subject,
		}), "mail.skipped")
	}
	return ErrDisabled
}
