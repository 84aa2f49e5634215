package tool_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/resend-mcp/internal/credential"
	"github.com/hal9000y/resend-mcp/internal/format"
	"github.com/hal9000y/resend-mcp/internal/settings"
	"github.com/hal9000y/resend-mcp/internal/tool"
)

type sendCall struct {
	req            *resend.SendEmailRequest
	idempotencyKey string
}

type resendSvcMock struct {
	SendEmailFunc  func(ctx context.Context, req *resend.SendEmailRequest, idempotencyKey string) (*resend.SendEmailResponse, error)
	GetEmailFunc   func(ctx context.Context, emailID string) (*resend.Email, error)
	ListEmailsFunc func(ctx context.Context, limit int) ([]resend.Email, error)

	mu         sync.Mutex
	sendCalls  []sendCall
	listLimits []int
}

func (m *resendSvcMock) SendEmail(ctx context.Context, req *resend.SendEmailRequest, idempotencyKey string) (*resend.SendEmailResponse, error) {
	m.mu.Lock()
	m.sendCalls = append(m.sendCalls, sendCall{req: req, idempotencyKey: idempotencyKey})
	m.mu.Unlock()

	return m.SendEmailFunc(ctx, req, idempotencyKey)
}

func (m *resendSvcMock) GetEmail(ctx context.Context, emailID string) (*resend.Email, error) {
	return m.GetEmailFunc(ctx, emailID)
}

func (m *resendSvcMock) ListEmails(ctx context.Context, limit int) ([]resend.Email, error) {
	m.mu.Lock()
	m.listLimits = append(m.listLimits, limit)
	m.mu.Unlock()

	return m.ListEmailsFunc(ctx, limit)
}

func (m *resendSvcMock) sent() []sendCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]sendCall(nil), m.sendCalls...)
}

func (m *resendSvcMock) limits() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]int(nil), m.listLimits...)
}

func newKeyStore(t *testing.T) *credential.Store {
	t.Helper()

	return credential.NewStore(settings.New(filepath.Join(t.TempDir(), "settings.json")))
}

func connect(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientSession.Close() })

	return clientSession
}

func newSession(t *testing.T, svc *resendSvcMock, keys *credential.Store) *mcp.ClientSession {
	t.Helper()

	if keys == nil {
		keys = newKeyStore(t)
	}

	return connect(t, tool.NewServer(svc, keys, format.Converter{}))
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result
}

func resultText(result *mcp.CallToolResult) string {
	return result.Content[0].(*mcp.TextContent).Text
}

func decodeResult[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()

	require.False(t, result.IsError, "unexpected tool error: %s", resultText(result))

	var out T
	require.NoError(t, json.Unmarshal([]byte(resultText(result)), &out))

	return out
}

func requireToolError(t *testing.T, result *mcp.CallToolResult, contains string) {
	t.Helper()

	require.True(t, result.IsError, "Result should indicate error")
	require.Contains(t, resultText(result), contains)
}
