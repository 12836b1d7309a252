package domain

import (
	"context"
	"errors"
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=50"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,min=5,max=100"`
	Message string `json:"message" binding:"required,min=10,max=1000"`
}

// RequestMeta carries per-request metadata included in the notification email
// and in the audit log line.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// ErrMailNotConfigured signals missing SMTP credentials; the contact form is
// unavailable until an operator supplies them.
var ErrMailNotConfigured = errors.New("email service is not configured")

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage verifies the mail transport and dispatches both the
	// owner notification and the auto-reply for a validated submission.
	SendContactMessage(ctx context.Context, req *ContactRequest, meta RequestMeta) error
}
