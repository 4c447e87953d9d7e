// Package mcpserver exposes notifications and icon resolution as MCP tools,
// so an assistant can notify the user on the desktop it runs beside.
package mcpserver

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"desknotify/internal/logging"
	"desknotify/internal/notify"
)

// NewServer builds an MCP server whose tools act on m.
func NewServer(m *notify.Manager, version string) *mcpsdk.Server {
	server := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "desktop-notify",
			Version: version,
		},
		nil,
	)
	t := &tools{m: m}

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "send_notification",
		Description: "Show a desktop notification. With actions, waits for the user's choice and returns the selected key",
	}, t.sendNotification)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "resolve_icon",
		Description: "Resolve an icon name to the file path or glyph the active icon set would use",
	}, t.resolveIcon)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_icon_sets",
		Description: "List registered icon sets with availability and which one is active",
	}, t.listIconSets)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_backends",
		Description: "List notification backends with priority, availability and features",
	}, t.listBackends)

	return server
}

// RunServer serves the tools over stdio until ctx is cancelled or the
// client disconnects.
func RunServer(ctx context.Context, m *notify.Manager, version string) error {
	logging.For("mcp").Info().Str("backend", m.BackendName()).Msg("mcp server starting on stdio")
	return NewServer(m, version).Run(ctx, &mcpsdk.StdioTransport{})
}
