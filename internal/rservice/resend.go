package rservice

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/hal9000y/resend-mcp/internal/apperr"
)

// MaxListLimit is the largest page the listing endpoint is asked for.
const MaxListLimit = 255

// SendEmail sends one email. An empty idempotencyKey sends without one.
func (r *Resend) SendEmail(ctx context.Context, req *resend.SendEmailRequest, idempotencyKey string) (*resend.SendEmailResponse, error) {
	clt, err := r.newClient()
	if err != nil {
		return nil, fmt.Errorf("newClient failed: %w", err)
	}

	var sent *resend.SendEmailResponse
	if idempotencyKey != "" {
		sent, err = clt.Emails.SendWithOptions(ctx, req, &resend.SendEmailOptions{IdempotencyKey: idempotencyKey})
	} else {
		sent, err = clt.Emails.SendWithContext(ctx, req)
	}
	if err != nil {
		return nil, apperr.Remote("send email", err)
	}

	return sent, nil
}

// GetEmail retrieves one sent email by ID.
func (r *Resend) GetEmail(ctx context.Context, emailID string) (*resend.Email, error) {
	clt, err := r.newClient()
	if err != nil {
		return nil, fmt.Errorf("newClient failed: %w", err)
	}

	email, err := clt.Emails.GetWithContext(ctx, emailID)
	if err != nil {
		return nil, apperr.Remote("fetch email", err)
	}

	return email, nil
}

// ListEmails returns up to limit most recent sent emails in API order.
// limit is clamped to [1, MaxListLimit].
func (r *Resend) ListEmails(ctx context.Context, limit int) ([]resend.Email, error) {
	clt, err := r.newClient()
	if err != nil {
		return nil, fmt.Errorf("newClient failed: %w", err)
	}

	limit = min(max(limit, 1), MaxListLimit)

	result, err := clt.Emails.ListWithOptions(ctx, &resend.ListOptions{Limit: &limit})
	if err != nil {
		return nil, apperr.Remote("fetch sent emails", err)
	}

	return result.Data, nil
}
