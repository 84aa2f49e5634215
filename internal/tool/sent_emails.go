package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/resend/resend-go/v2"

	"github.com/hal9000y/resend-mcp/internal/rservice"
)

const defaultListLimit = 12

// ListSentEmailsRequest selects a window of the most recent sent emails.
type ListSentEmailsRequest struct {
	Limit  *int `json:"limit,omitempty" jsonschema:"number of emails to return, defaults to 12" validate:"omitempty,min=0"`
	Offset *int `json:"offset,omitempty" jsonschema:"number of most recent emails to skip, defaults to 0" validate:"omitempty,min=0"`
}

// ListSentEmailsResponse contains the requested window in API order.
type ListSentEmailsResponse struct {
	Emails []SentEmail `json:"emails" jsonschema:"sent emails, most recent first"`
}

// GetSentEmailRequest identifies one sent email.
type GetSentEmailRequest struct {
	EmailID string `json:"email_id" jsonschema:"the Resend email ID" validate:"required"`
}

type sentEmailsSvc interface {
	GetEmail(ctx context.Context, emailID string) (*resend.Email, error)
	ListEmails(ctx context.Context, limit int) ([]resend.Email, error)
}

// NewSentEmails creates the sent email tools.
func NewSentEmails(svc sentEmailsSvc) *SentEmails {
	return &SentEmails{svc: svc}
}

// SentEmails reads previously sent emails.
type SentEmails struct {
	svc sentEmailsSvc
}

// ListSentEmails emulates offset pagination: the listing endpoint has no
// offset, so limit+offset emails are fetched in one page and the window is cut
// locally. The page size is capped at rservice.MaxListLimit, so emails older
// than that are never reachable.
func (t *SentEmails) ListSentEmails(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListSentEmailsRequest,
) (*mcp.CallToolResult, ListSentEmailsResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, ListSentEmailsResponse{}, displayError(err)
	}

	limit, offset := defaultListLimit, 0
	if input.Limit != nil {
		limit = *input.Limit
	}
	if input.Offset != nil {
		offset = *input.Offset
	}

	emails := make([]SentEmail, 0, min(limit, rservice.MaxListLimit))

	fetch := effectiveLimit(limit, offset)
	if fetch == 0 {
		return nil, ListSentEmailsResponse{Emails: emails}, nil
	}

	data, err := t.svc.ListEmails(ctx, fetch)
	if err != nil {
		return nil, ListSentEmailsResponse{}, displayError(err)
	}

	for _, email := range window(data, offset, limit) {
		emails = append(emails, extractSentEmail(&email))
	}

	return nil, ListSentEmailsResponse{Emails: emails}, nil
}

// GetSentEmail fetches one email. Unlike the listing, an empty HTML body
// falls back to the text body.
func (t *SentEmails) GetSentEmail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSentEmailRequest,
) (*mcp.CallToolResult, SentEmail, error) {
	if err := validateInput(input); err != nil {
		return nil, SentEmail{}, displayError(err)
	}

	email, err := t.svc.GetEmail(ctx, input.EmailID)
	if err != nil {
		return nil, SentEmail{}, displayError(err)
	}

	sent := extractSentEmail(email)
	if sent.HTML == nil {
		sent.HTML = optional(email.Text)
	}

	return nil, sent, nil
}

// effectiveLimit is min(limit+offset, rservice.MaxListLimit) without overflow.
func effectiveLimit(limit, offset int) int {
	capped := rservice.MaxListLimit
	return min(min(limit, capped)+min(offset, capped), capped)
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}

	items = items[offset:]

	return items[:min(limit, len(items))]
}
