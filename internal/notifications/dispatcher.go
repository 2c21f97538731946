package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hotelops/reclamations-backend/pkg/db/models"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	"github.com/hotelops/reclamations-backend/pkg/logger"
	"github.com/hotelops/reclamations-backend/pkg/mail"
	"github.com/hotelops/reclamations-backend/pkg/metrics"
	"github.com/hotelops/reclamations-backend/pkg/onesignal"
)

// PushSender delivers one push notification to a batch of device tokens.
type PushSender interface {
	Send(ctx context.Context, n onesignal.Notification) (*onesignal.CreateNotificationResponse, error)
}

// Recipient is an account that should hear about a reclamation.
type Recipient struct {
	Name      string
	Email     string
	PlayerIDs []string
}

// RecipientResolver looks up who should hear about a reclamation. It runs on
// the background job with a context detached from the request.
type RecipientResolver func(ctx context.Context) ([]Recipient, error)

// CredentialsAction selects the account email variant.
type CredentialsAction string

const (
	CredentialsCreated CredentialsAction = "create"
	CredentialsUpdated CredentialsAction = "update"
)

// CredentialsNotice describes an account email. Password is set only when a
// new plaintext password was just chosen or generated.
type CredentialsNotice struct {
	Action      CredentialsAction
	Name        string
	Email       string
	Role        enums.Role
	Departments []string
	Password    string
	AdminName   string
}

// Dispatcher fans out best-effort email and push notifications on background
// goroutines. Delivery outcomes are logged and counted, never returned.
type Dispatcher struct {
	mail    mail.Sender
	push    PushSender
	logg    *logger.Logger
	metrics *metrics.NotificationMetrics
	wg      sync.WaitGroup
}

// DispatcherParams bundles the dispatcher collaborators. Push may be nil when
// push delivery is not configured.
type DispatcherParams struct {
	Mail    mail.Sender
	Push    PushSender
	Logger  *logger.Logger
	Metrics *metrics.NotificationMetrics
}

// NewDispatcher validates the collaborators and builds a dispatcher.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Mail == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Dispatcher{
		mail:    params.Mail,
		push:    params.Push,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// NotifyReclamationCreated resolves the recipients in the background, then
// emails every distinct address and sends a single push carrying the union of
// their device tokens.
func (d *Dispatcher) NotifyReclamationCreated(ctx context.Context, r models.Reclamation, resolve RecipientResolver) {
	ctx = d.logg.WithReclamationID(context.WithoutCancel(ctx), r.ID.String())
	d.goSafe(ctx, "reclamation_created", func(ctx context.Context) {
		recipients, err := resolve(ctx)
		if err != nil {
			d.logg.Error(ctx, "notifications.recipients_failed", err)
			return
		}
		d.deliverReclamation(ctx, r, recipients)
	})
}

// NotifyCredentials emails account details to the account holder.
func (d *Dispatcher) NotifyCredentials(ctx context.Context, notice CredentialsNotice) {
	ctx = context.WithoutCancel(ctx)
	d.goSafe(ctx, "credentials", func(ctx context.Context) {
		d.deliverCredentials(ctx, notice)
	})
}

// Wait blocks until every in-flight dispatch has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) goSafe(ctx context.Context, job string, fn func(context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				d.logg.Error(d.logg.WithField(ctx, "job", job), "notifications.panic", fmt.Errorf("%v", rec))
			}
		}()
		fn(ctx)
	}()
}

func (d *Dispatcher) deliverReclamation(ctx context.Context, r models.Reclamation, recipients []Recipient) {
	html, err := render(reclamationCreatedTmpl, reclamationView{
		Subject:     r.Subject,
		Description: r.Description,
		Location:    r.Location,
		Departments: []string(r.Departments),
		Priority:    int(r.Priority),
		AssignedTo:  r.AssignedTo,
		CreatedBy:   r.CreatedBy,
	})
	if err != nil {
		d.logg.Error(ctx, "notifications.render_failed", err)
		return
	}

	subject := "New reclamation: " + r.Subject
	for _, email := range uniqueEmails(recipients) {
		d.sendMail(ctx, mail.Message{To: email, Subject: subject, HTML: html})
	}

	tokens := uniqueTokens(recipients)
	d.sendPush(ctx, onesignal.Notification{
		PlayerIDs: tokens,
		Heading:   "New reclamation",
		Content:   fmt.Sprintf("%s (%s)", r.Subject, r.Location),
	})
}

func (d *Dispatcher) deliverCredentials(ctx context.Context, notice CredentialsNotice) {
	var (
		tmpl    = accountCreatedTmpl
		subject = "Welcome! Your sign-in details"
	)
	switch notice.Action {
	case CredentialsCreated:
	case CredentialsUpdated:
		tmpl = accountUpdatedTmpl
		subject = "Your account was updated"
	default:
		d.logg.Warn(d.logg.WithField(ctx, "action", string(notice.Action)), "notifications.unknown_credentials_action")
		return
	}

	view := notice
	if view.Role != enums.RoleStaff {
		view.Departments = nil
	}
	html, err := render(tmpl, view)
	if err != nil {
		d.logg.Error(ctx, "notifications.render_failed", err)
		return
	}
	d.sendMail(ctx, mail.Message{To: notice.Email, Subject: subject, HTML: html})
}

func (d *Dispatcher) sendMail(ctx context.Context, msg mail.Message) {
	ctx = d.logg.WithChannel(ctx, string(enums.NotificationChannelEmail))
	err := d.mail.Send(ctx, msg)
	switch {
	case err == nil:
		d.metrics.Observe(enums.NotificationChannelEmail, enums.NotificationOutcomeSent)
	case errors.Is(err, mail.ErrDisabled):
		d.metrics.Observe(enums.NotificationChannelEmail, enums.NotificationOutcomeSkipped)
	default:
		d.metrics.Observe(enums.NotificationChannelEmail, enums.NotificationOutcomeFailed)
		d.logg.Error(d.logg.WithField(ctx, "to", msg.To), "notifications.email_failed", err)
	}
}

func (d *Dispatcher) sendPush(ctx context.Context, n onesignal.Notification) {
	if d.push == nil || len(n.PlayerIDs) == 0 {
		d.metrics.Observe(enums.NotificationChannelPush, enums.NotificationOutcomeSkipped)
		return
	}
	ctx = d.logg.WithChannel(ctx, string(enums.NotificationChannelPush))
	if _, err := d.push.Send(ctx, n); err != nil {
		d.metrics.Observe(enums.NotificationChannelPush, enums.NotificationOutcomeFailed)
		d.logg.Error(d.logg.WithField(ctx, "tokens", len(n.PlayerIDs)), "notifications.push_failed", err)
		return
	}
	d.metrics.Observe(enums.NotificationChannelPush, enums.NotificationOutcomeSent)
}

type reclamationView struct {
	Subject     string
	Description string
	Location    string
	Departments []string
	Priority    int
	AssignedTo  string
	CreatedBy   string
}

func uniqueEmails(recipients []Recipient) []string {
	seen := make(map[string]struct{}, len(recipients))
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		email := strings.TrimSpace(r.Email)
		key := strings.ToLower(email)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, email)
	}
	return out
}

func uniqueTokens(recipients []Recipient) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range recipients {
		for _, token := range r.PlayerIDs {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			out = append(out, token)
		}
	}
	return out
}
