package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// rpc sends one JSON-RPC message through the MCP server and returns the
// encoded response.
func rpc(t *testing.T, server *Server, message string) string {
	t.Helper()
	response := server.mcpServer.HandleMessage(context.Background(), json.RawMessage(message))
	data, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
	return string(data)
}

func TestServerToolsRegistration(t *testing.T) {
	server, _ := newTestServer(t)

	rpc(t, server, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`)
	response := rpc(t, server, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	for _, name := range []string{
		"certificate_validate_file",
		"certificate_parse_file",
		"certificate_fill_file",
		"certificate_batch",
		"certificate_server_info",
	} {
		if !strings.Contains(response, `"name":"`+name+`"`) {
			t.Errorf("tool %s not registered: %s", name, response)
		}
	}
}

func TestServerIntegration_CallTool(t *testing.T) {
	server, _ := newTestServer(t)

	rpc(t, server, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`)
	response := rpc(t, server, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"certificate_parse_file","arguments":{"path":"uploads/hoa.docx"}}}`)

	if !strings.Contains(response, "Status: COMPLETE") {
		t.Errorf("expected a complete record, got: %s", response)
	}
	if !strings.Contains(response, "NGUYỄN THỊ HOA") {
		t.Errorf("expected full name in response, got: %s", response)
	}
}
