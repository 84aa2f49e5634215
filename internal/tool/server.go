package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type resendSvc interface {
	sendEmailSvc
	sentEmailsSvc
}

type cnv interface {
	htmlConverter
	mdConverter
}

// NewServer creates an MCP server with the API key and Resend tools.
func NewServer(svc resendSvc, keys apiKeyStore, cnv cnv) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "resend-helper", Version: "v1.0.0"}, nil)

	apiKey := NewAPIKey(keys)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "has_api_key",
		Description: "Report whether a Resend API key is configured",
	}, apiKey.HasAPIKey)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_api_key",
		Description: "Store the Resend API key in the local settings file",
	}, apiKey.SaveAPIKey)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_api_key",
		Description: "Return the stored Resend API key, if any",
	}, apiKey.GetAPIKey)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_api_key",
		Description: "Remove the stored Resend API key",
	}, apiKey.DeleteAPIKey)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "send_email",
		Description: "Send an email through Resend",
	}, NewSendEmail(svc, cnv).SendEmail)

	sent := NewSentEmails(svc)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sent_emails",
		Description: "List the most recent sent emails using limit/offset pagination",
	}, sent.ListSentEmails)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_sent_email",
		Description: "Get a sent email by ID",
	}, sent.GetSentEmail)

	return server
}
