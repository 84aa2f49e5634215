package tool

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/resend/resend-go/v2"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// SendEmailRequest describes an email composed by the user.
type SendEmailRequest struct {
	From           string            `json:"from" jsonschema:"sender address, optionally with a display name" validate:"required"`
	To             []string          `json:"to" jsonschema:"recipient addresses" validate:"required,min=1,dive,email"`
	Subject        string            `json:"subject" jsonschema:"email subject" validate:"required"`
	CC             []string          `json:"cc,omitempty" jsonschema:"CC recipients" validate:"omitempty,dive,email"`
	BCC            []string          `json:"bcc,omitempty" jsonschema:"BCC recipients" validate:"omitempty,dive,email"`
	ReplyTo        string            `json:"reply_to,omitempty" jsonschema:"reply-to address" validate:"omitempty,email"`
	Content        string            `json:"content" jsonschema:"message body" validate:"required"`
	Format         string            `json:"format,omitempty" jsonschema:"body format: html (default), markdown or text" validate:"omitempty,oneof=html markdown text"`
	MessageID      string            `json:"message_id,omitempty" jsonschema:"Message-ID of the email being replied to"`
	Attachments    []AttachmentInput `json:"attachments,omitempty" jsonschema:"files to attach" validate:"omitempty,dive"`
	IdempotencyKey string            `json:"idempotency_key,omitempty" jsonschema:"key to deduplicate retried sends, generated when empty"`
}

// AttachmentInput is a file attached to an outgoing email.
type AttachmentInput struct {
	Filename    string `json:"filename" jsonschema:"file name shown to the recipient" validate:"required"`
	Content     string `json:"content" jsonschema:"base64 encoded file content" validate:"required,base64"`
	ContentType string `json:"content_type,omitempty" jsonschema:"MIME type, derived from the file name when empty"`
}

// SendEmailResponse is Resend's acknowledgment.
type SendEmailResponse struct {
	ID string `json:"id" jsonschema:"ID of the sent email"`
}

type sendEmailSvc interface {
	SendEmail(ctx context.Context, req *resend.SendEmailRequest, idempotencyKey string) (*resend.SendEmailResponse, error)
}

type htmlConverter interface {
	HTML2Text(raw []byte) (string, error)
}

type mdConverter interface {
	MD2HTML(raw []byte) (string, error)
}

// NewSendEmail creates a new SendEmail tool.
func NewSendEmail(svc sendEmailSvc, conv cnv) *SendEmail {
	return &SendEmail{
		svc:  svc,
		conv: conv,
	}
}

// SendEmail sends emails through Resend.
type SendEmail struct {
	svc  sendEmailSvc
	conv cnv
}

// SendEmail validates the input, builds the Resend request and sends it.
func (t *SendEmail) SendEmail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SendEmailRequest,
) (*mcp.CallToolResult, SendEmailResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, SendEmailResponse{}, displayError(err)
	}

	req, err := t.buildRequest(input)
	if err != nil {
		return nil, SendEmailResponse{}, displayError(err)
	}

	idempotencyKey := input.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	sent, err := t.svc.SendEmail(ctx, req, idempotencyKey)
	if err != nil {
		return nil, SendEmailResponse{}, displayError(err)
	}

	return nil, SendEmailResponse{ID: sent.Id}, nil
}

func (t *SendEmail) buildRequest(input SendEmailRequest) (*resend.SendEmailRequest, error) {
	req := &resend.SendEmailRequest{
		From:    input.From,
		To:      input.To,
		Subject: input.Subject,
		Cc:      input.CC,
		Bcc:     input.BCC,
		ReplyTo: input.ReplyTo,
	}

	var err error
	req.Html, req.Text, err = t.bodies(input.Format, input.Content)
	if err != nil {
		return nil, err
	}

	if input.MessageID != "" {
		req.Headers = map[string]string{
			"In-Reply-To": input.MessageID,
			"References":  input.MessageID,
		}
	}

	for _, a := range input.Attachments {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, fmt.Errorf("decode attachment %s failed: %w", a.Filename, err)
		}

		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     content,
			ContentType: a.ContentType,
		})
	}

	return req, nil
}

func (t *SendEmail) bodies(format, content string) (htmlBody, textBody string, err error) {
	switch format {
	case formatMarkdown:
		htmlBody, err = t.conv.MD2HTML([]byte(content))
		if err != nil {
			return "", "", fmt.Errorf("conv.MD2HTML failed: %w", err)
		}
		return htmlBody, content, nil
	case formatText:
		return "", content, nil
	default:
		textBody, err = t.conv.HTML2Text([]byte(content))
		if err != nil {
			return "", "", fmt.Errorf("conv.HTML2Text failed: %w", err)
		}
		return content, textBody, nil
	}
}
