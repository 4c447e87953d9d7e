package mcpserver

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"desknotify/internal/icons"
	"desknotify/internal/notify"
)

type tools struct {
	m *notify.Manager
}

// send_notification

type sendNotificationInput struct {
	Title   string `json:"title" jsonschema:"Notification title"`
	Message string `json:"message,omitempty" jsonschema:"Notification body"`
	Icon    string `json:"icon,omitempty" jsonschema:"Icon name (e.g. info, success, error) or emoji"`
	Urgency string `json:"urgency,omitempty" jsonschema:"low, normal or critical"`
	Timeout *int   `json:"timeout,omitempty" jsonschema:"Timeout in milliseconds; 0 keeps it until dismissed"`
	Actions string `json:"actions,omitempty" jsonschema:"Comma-separated key:Label pairs, e.g. yes:Approve,no:Reject"`
	ID      string `json:"id,omitempty" jsonschema:"Replace an earlier notification with the same id"`
}

func (t *tools) sendNotification(ctx context.Context, req *mcpsdk.CallToolRequest, input sendNotificationInput) (*mcpsdk.CallToolResult, notify.Result, error) {
	if input.Title == "" {
		return nil, notify.Result{}, fmt.Errorf("title is required")
	}
	n := notify.Notification{
		Title:   input.Title,
		Message: input.Message,
		Icon:    input.Icon,
		Urgency: notify.Urgency(input.Urgency),
		Timeout: input.Timeout,
		ID:      input.ID,
	}
	if input.Actions != "" {
		n.Actions = notify.ParseActions(input.Actions)
		if len(n.Actions) == 0 {
			return nil, notify.Result{}, fmt.Errorf("no valid actions in %q (expected key:Label pairs)", input.Actions)
		}
	}
	if n.Icon == "" {
		n.Icon = "info"
	}

	res := t.m.Send(ctx, n)
	if !res.Success {
		return nil, res, fmt.Errorf("notification failed: %s", res.Error)
	}
	return nil, res, nil
}

// resolve_icon

type resolveIconInput struct {
	Name string `json:"name" jsonschema:"Icon name to resolve"`
}

func (t *tools) resolveIcon(ctx context.Context, req *mcpsdk.CallToolRequest, input resolveIconInput) (*mcpsdk.CallToolResult, icons.Info, error) {
	if input.Name == "" {
		return nil, icons.Info{}, fmt.Errorf("name is required")
	}
	return nil, t.m.Icons().Resolve(input.Name), nil
}

// list_icon_sets

type listIconSetsInput struct{}

type listIconSetsOutput struct {
	Sets   []icons.SetInfo `json:"sets"`
	Active string          `json:"active"`
}

func (t *tools) listIconSets(ctx context.Context, req *mcpsdk.CallToolRequest, input listIconSetsInput) (*mcpsdk.CallToolResult, listIconSetsOutput, error) {
	im := t.m.Icons()
	return nil, listIconSetsOutput{Sets: im.Infos(), Active: im.Active()}, nil
}

// list_backends

type listBackendsInput struct{}

type listBackendsOutput struct {
	Backends []notify.BackendInfo `json:"backends"`
	Current  string               `json:"current"`
}

func (t *tools) listBackends(ctx context.Context, req *mcpsdk.CallToolRequest, input listBackendsInput) (*mcpsdk.CallToolResult, listBackendsOutput, error) {
	return nil, listBackendsOutput{
		Backends: t.m.Registry().AllInfo(),
		Current:  t.m.BackendName(),
	}, nil
}
