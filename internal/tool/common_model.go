package tool

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/resend/resend-go/v2"

	"github.com/hal9000y/resend-mcp/internal/apperr"
)

// SentEmail is a previously sent email as reported by Resend.
type SentEmail struct {
	ID        string   `json:"id" jsonschema:"email ID"`
	From      string   `json:"from" jsonschema:"sender address"`
	To        []string `json:"to" jsonschema:"recipient addresses"`
	Subject   string   `json:"subject" jsonschema:"email subject"`
	HTML      *string  `json:"html,omitempty" jsonschema:"message body"`
	CreatedAt string   `json:"created_at" jsonschema:"creation timestamp as reported by Resend"`
	CC        []string `json:"cc" jsonschema:"CC recipients"`
	BCC       []string `json:"bcc" jsonschema:"BCC recipients"`
	ReplyTo   *string  `json:"reply_to,omitempty" jsonschema:"reply-to addresses joined by comma"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func extractSentEmail(email *resend.Email) SentEmail {
	return SentEmail{
		ID:        email.Id,
		From:      email.From,
		To:        nonNil(email.To),
		Subject:   email.Subject,
		HTML:      optional(email.Html),
		CreatedAt: email.CreatedAt,
		CC:        nonNil(email.Cc),
		BCC:       nonNil(email.Bcc),
		ReplyTo:   joinReplyTo(email.ReplyTo),
	}
}

func joinReplyTo(replyTo []string) *string {
	if len(replyTo) == 0 {
		return nil
	}

	joined := strings.Join(replyTo, ", ")

	return &joined
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return apperr.InvalidInput(err)
	}

	return nil
}

// displayError turns err into the message shown by the front-end.
func displayError(err error) error {
	return errors.New(apperr.Display(err))
}
