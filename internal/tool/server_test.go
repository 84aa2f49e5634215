package tool_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/resend-mcp/internal/format"
	"github.com/hal9000y/resend-mcp/internal/rservice"
	"github.com/hal9000y/resend-mcp/internal/tool"
)

func TestResendToolsWithoutAPIKey(t *testing.T) {
	var hits atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(api.Close)

	baseURL, err := url.Parse(api.URL + "/")
	require.NoError(t, err)

	keys := newKeyStore(t)
	svc := rservice.NewResend(keys, rservice.WithBaseURL(baseURL), rservice.WithHTTPClient(api.Client()))
	session := connect(t, tool.NewServer(svc, keys, format.Converter{}))

	calls := []struct {
		name string
		args any
	}{
		{name: "send_email", args: tool.SendEmailRequest{
			From:    "me@example.com",
			To:      []string{"you@example.com"},
			Subject: "hello",
			Content: "<p>hello</p>",
		}},
		{name: "list_sent_emails", args: nil},
		{name: "get_sent_email", args: tool.GetSentEmailRequest{EmailID: "e-001"}},
	}

	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			result := callTool(t, session, c.name, c.args)
			requireToolError(t, result, "[ERROR] API key not configured")
		})
	}

	assert.Zero(t, hits.Load(), "no request should reach Resend without a key")
}

func TestListTools(t *testing.T) {
	session := newSession(t, &resendSvcMock{}, nil)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(tools.Tools))
	for _, tl := range tools.Tools {
		names = append(names, tl.Name)
	}

	assert.ElementsMatch(t, []string{
		"has_api_key",
		"save_api_key",
		"get_api_key",
		"delete_api_key",
		"send_email",
		"list_sent_emails",
		"get_sent_email",
	}, names)
}
