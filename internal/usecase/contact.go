package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/mailer"
)

type contactUsecase struct {
	mail mailer.Mailer
	cfg  *config.Config
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(mail mailer.Mailer, cfg *config.Config) domain.ContactUsecase {
	return &contactUsecase{
		mail: mail,
		cfg:  cfg,
	}
}

// SendContactMessage verifies the mail transport and dispatches both the
// owner notification and the submitter auto-reply. Success requires both
// sends to succeed; there is no retry and no partial-success result.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest, meta domain.RequestMeta) error {
	// Credentials missing: abort before any network call
	if !uc.mail.IsConfigured() {
		return domain.ErrMailNotConfigured
	}

	data := mailer.SubmissionData{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Subject:    strings.TrimSpace(req.Subject),
		Message:    strings.TrimSpace(req.Message),
		ReceivedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		SiteName:   uc.cfg.SiteName,
		SiteURL:    uc.cfg.SiteURL,
	}

	// Verify connectivity and credentials before composing anything; a
	// failure here means zero send attempts.
	verifyCtx, cancel := context.WithTimeout(ctx, uc.cfg.MailTimeout)
	defer cancel()
	if err := uc.mail.Verify(verifyCtx); err != nil {
		uc.audit(data, "transport_verify_failed", err)
		return fmt.Errorf("mail transport verification failed: %w", err)
	}

	notification, err := mailer.ComposeNotification(uc.cfg.SMTPUser, uc.cfg.ContactEmail, data)
	if err != nil {
		uc.audit(data, "compose_failed", err)
		return err
	}
	autoReply, err := mailer.ComposeAutoReply(uc.cfg.SMTPUser, data)
	if err != nil {
		uc.audit(data, "compose_failed", err)
		return err
	}

	// Fan out both sends, join both results. The submission succeeds only
	// if both messages were delivered to the server.
	errc := make(chan error, 2)
	for _, msg := range []mailer.Message{notification, autoReply} {
		go func(m mailer.Message) {
			sendCtx, cancel := context.WithTimeout(ctx, uc.cfg.MailTimeout)
			defer cancel()
			errc <- uc.mail.Send(sendCtx, m)
		}(msg)
	}

	var sendErr error
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil && sendErr == nil {
			sendErr = err
		}
	}
	if sendErr != nil {
		uc.audit(data, "dispatch_failed", sendErr)
		return fmt.Errorf("failed to send contact email: %w", sendErr)
	}

	uc.audit(data, "sent", nil)
	return nil
}

// audit emits one structured log line per submission attempt that reached
// the dispatch stage.
func (uc *contactUsecase) audit(data mailer.SubmissionData, outcome string, err error) {
	if logger.Log == nil {
		return
	}
	attrs := []any{
		"timestamp", data.ReceivedAt.Format(time.RFC3339),
		"name", data.Name,
		"email", data.Email,
		"subject", data.Subject,
		"ip", data.ClientIP,
		"outcome", outcome,
	}
	if err != nil {
		var terr *mailer.TransportError
		if errors.As(err, &terr) {
			attrs = append(attrs, "error_code", terr.Code)
		}
		attrs = append(attrs, "error", err.Error())
		logger.Log.Error("Contact form submission", attrs...)
		return
	}
	logger.Log.Info("Contact form submission", attrs...)
}
