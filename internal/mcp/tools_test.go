package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"desknotify/internal/config"
	"desknotify/internal/icons"
	"desknotify/internal/notify"
)

// setupTestServer connects a client to a server backed by a console
// backend writing into the returned buffer.
func setupTestServer(t *testing.T) (*mcpsdk.ClientSession, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	r := notify.NewRegistry()
	r.Register("console", func() (notify.Backend, error) {
		return notify.NewConsole(config.ConsoleSettings{}, &buf), nil
	})
	s := config.DefaultSettings()
	s.Timeout = 3000
	m := notify.NewManager(s,
		notify.WithRegistry(r),
		notify.WithIcons(icons.NewManager("minimal", 16)),
	)

	server := NewServer(m, "0.0.1")
	ct, st := mcpsdk.NewInMemoryTransports()

	ctx := context.Background()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	t.Cleanup(func() {
		cs.Close()
		ss.Close()
	})
	return cs, &buf
}

// callTool calls a tool and returns the unmarshaled JSON content from the
// first TextContent block.
func callTool(t *testing.T, cs *mcpsdk.ClientSession, name string, args any) (map[string]any, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if len(result.Content) == 0 {
		t.Fatalf("CallTool(%s): empty content", name)
	}
	tc, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): content is %T, want *TextContent", name, result.Content[0])
	}
	if result.IsError {
		return map[string]any{"error": tc.Text}, true
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(tc.Text), &m); err != nil {
		t.Fatalf("CallTool(%s): unmarshal response: %v\nraw: %s", name, err, tc.Text)
	}
	return m, false
}

func TestSendNotification(t *testing.T) {
	cs, buf := setupTestServer(t)

	resp, isErr := callTool(t, cs, "send_notification", map[string]any{
		"title":   "Build finished",
		"message": "all green",
		"icon":    "success",
	})
	if isErr {
		t.Fatalf("send_notification failed: %v", resp["error"])
	}
	if resp["success"] != true || resp["backend"] != "console" || resp["outcome"] != "sent" {
		t.Fatalf("unexpected result: %v", resp)
	}
	icon, ok := resp["icon"].(map[string]any)
	if !ok || icon["value"] != "✅" {
		t.Fatalf("icon = %v, want resolved success glyph", resp["icon"])
	}
	if !strings.Contains(buf.String(), "Build finished") {
		t.Fatalf("console output missing title: %q", buf.String())
	}
}

func TestSendNotification_Actions(t *testing.T) {
	cs, buf := setupTestServer(t)

	resp, isErr := callTool(t, cs, "send_notification", map[string]any{
		"title":   "Deploy?",
		"actions": "yes:Deploy,no:Cancel",
	})
	if isErr {
		t.Fatalf("send_notification failed: %v", resp["error"])
	}
	if resp["outcome"] != "dismissed" {
		t.Fatalf("outcome = %v, want dismissed from console", resp["outcome"])
	}
	if !strings.Contains(buf.String(), "Deploy (yes)") {
		t.Fatalf("console output missing actions: %q", buf.String())
	}
}

func TestSendNotification_Invalid(t *testing.T) {
	cs, _ := setupTestServer(t)

	if _, isErr := callTool(t, cs, "send_notification", map[string]any{"message": "no title"}); !isErr {
		t.Error("missing title should fail")
	}
	resp, isErr := callTool(t, cs, "send_notification", map[string]any{"title": "x", "actions": "garbage"})
	if !isErr || !strings.Contains(resp["error"].(string), "no valid actions") {
		t.Errorf("unparseable actions: got %v", resp)
	}
}

func TestResolveIcon(t *testing.T) {
	cs, _ := setupTestServer(t)

	resp, isErr := callTool(t, cs, "resolve_icon", map[string]any{"name": "information"})
	if isErr {
		t.Fatalf("resolve_icon failed: %v", resp["error"])
	}
	if resp["value"] != "ℹ️" || resp["set"] != "minimal" {
		t.Fatalf("unexpected resolution: %v", resp)
	}
}

func TestListIconSetsAndBackends(t *testing.T) {
	cs, _ := setupTestServer(t)

	sets, _ := callTool(t, cs, "list_icon_sets", map[string]any{})
	if sets["active"] != "minimal" {
		t.Fatalf("active = %v, want minimal", sets["active"])
	}
	if list, ok := sets["sets"].([]any); !ok || len(list) != 1 {
		t.Fatalf("sets = %v, want only minimal", sets["sets"])
	}

	backends, _ := callTool(t, cs, "list_backends", map[string]any{})
	if backends["current"] != "console" {
		t.Fatalf("current = %v, want console", backends["current"])
	}
	list, ok := backends["backends"].([]any)
	if !ok || len(list) != 1 || list[0].(map[string]any)["name"] != "console" {
		t.Fatalf("backends = %v", backends["backends"])
	}
}
