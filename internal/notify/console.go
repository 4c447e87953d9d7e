package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/icons"
	"desknotify/internal/logging"
)

var consoleGlyphs = map[string]string{
	"info":         "ℹ️",
	"warning":      "⚠️",
	"error":        "❌",
	"success":      "✅",
	"question":     "❓",
	"save":         "💾",
	"load":         "📥",
	"open":         "📂",
	"close":        "❌",
	"edit":         "✏️",
	"delete":       "🗑️",
	"mic":          "🎤",
	"camera":       "📷",
	"speaker":      "🔊",
	"headphones":   "🎧",
	"settings":     "⚙️",
	"user":         "👤",
	"lock":         "🔒",
	"unlock":       "🔓",
	"notification": "🔔",
}

const consoleDefaultGlyph = "📢"

// Console prints notifications to a terminal. It is always available and
// is the last resort when nothing else can deliver.
type Console struct {
	out       io.Writer
	colors    bool
	timestamp bool
	now       func() time.Time
	log       *zerolog.Logger

	indicator map[Urgency]lipgloss.Style
	bold      lipgloss.Style
}

// NewConsole writes to w, or stderr when w is nil. Colors are dropped
// automatically when w is not a terminal.
func NewConsole(s config.ConsoleSettings, w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	r := lipgloss.NewRenderer(w)
	c := &Console{
		out:       w,
		colors:    s.UseColors,
		timestamp: s.Timestamp,
		now:       time.Now,
		log:       logging.For("backend"),
		bold:      r.NewStyle().Bold(true),
		indicator: map[Urgency]lipgloss.Style{
			UrgencyLow:      r.NewStyle().Faint(true),
			UrgencyNormal:   r.NewStyle().Foreground(lipgloss.Color("4")),
			UrgencyCritical: r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		},
	}
	return c
}

func (*Console) Name() string    { return "console" }
func (*Console) Priority() int   { return 1 }
func (*Console) Available() bool { return true }

// RawIcons tells the manager to hand over icon names unresolved; the
// console has its own glyph table.
func (*Console) RawIcons() bool { return true }

func consoleIndicator(u Urgency) string {
	switch u {
	case UrgencyLow:
		return "[INFO]"
	case UrgencyCritical:
		return "[ALERT]"
	default:
		return "[NOTIFY]"
	}
}

// ConsoleGlyph maps an icon name to the glyph the console prints.
func ConsoleGlyph(icon string) string {
	if icons.IsGlyph(icon) {
		return icon
	}
	if g, ok := consoleGlyphs[icon]; ok {
		return g
	}
	return consoleDefaultGlyph
}

func (c *Console) style(s lipgloss.Style, text string) string {
	if !c.colors {
		return text
	}
	return s.Render(text)
}

// Format renders n as the lines Send writes.
func (c *Console) Format(n Notification) []string {
	urgency := NormalizeUrgency(string(n.Urgency))

	var header strings.Builder
	if c.timestamp {
		fmt.Fprintf(&header, "[%s] ", c.now().Format(time.TimeOnly))
	}
	header.WriteString(c.style(c.indicator[urgency], consoleIndicator(urgency)))
	header.WriteString(" " + ConsoleGlyph(n.Icon) + " ")
	header.WriteString(c.style(c.bold, n.Title))
	if n.ID != "" {
		fmt.Fprintf(&header, " (ID: %s)", n.ID)
	}

	lines := []string{header.String(), "    " + n.Message}
	if len(n.Actions) > 0 {
		lines = append(lines, "    Available actions:")
		for _, a := range n.Actions {
			lines = append(lines, fmt.Sprintf("      - %s (%s)", a.Label, a.Key))
		}
		lines = append(lines, "    Note: Console backend does not support interactive actions")
	}
	width := min(50, utf8.RuneCountInString(n.Message))
	return append(lines, "    "+strings.Repeat("─", width))
}

func (c *Console) Send(_ context.Context, n Notification) (Result, error) {
	if _, err := io.WriteString(c.out, strings.Join(c.Format(n), "\n")+"\n"); err != nil {
		return failed(c.Name(), fmt.Errorf("write console notification: %w", err))
	}
	res := delivered(c.Name(), OutcomeSent)
	res.NotificationID = n.ID
	if len(n.Actions) > 0 {
		// Nobody can click anything here.
		c.log.Debug().Int("actions", len(n.Actions)).Msg("console backend cannot handle actions")
		res.Outcome = OutcomeDismissed
	}
	return res, nil
}

func (c *Console) Info() BackendInfo {
	features := []string{FeatureUrgency, FeatureIcons, FeatureReplace}
	if c.colors {
		features = append(features, FeatureColors)
	}
	return BackendInfo{
		Name:        c.Name(),
		Priority:    c.Priority(),
		Available:   true,
		Description: "Console/terminal output for headless environments",
		Features:    features,
		Urgencies:   Urgencies,
		Extra: map[string]string{
			"use_colors": fmt.Sprint(c.colors),
			"timestamp":  fmt.Sprint(c.timestamp),
		},
	}
}
