package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"desknotify/internal/icons"
)

// iconItem implements list.Item for one name in a set.
type iconItem struct {
	name  string
	value string
}

func (i iconItem) Title() string {
	if icons.IsGlyph(i.value) {
		return i.value + "  " + i.name
	}
	return i.name
}

func (i iconItem) Description() string { return i.value }

func (i iconItem) FilterValue() string { return i.name }

// loadIcons lists every name of set with its value in that set.
func loadIcons(im *icons.Manager, set string) []list.Item {
	s, ok := im.Get(set)
	if !ok || !s.Available() {
		return nil
	}
	names := s.List()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		v, ok := s.Icon(name)
		if !ok {
			continue
		}
		items = append(items, iconItem{name: name, value: v})
	}
	return items
}

// renderIconDetail shows the value in the browsed set next to what the
// active chain resolves the same name to.
func renderIconDetail(item iconItem, info icons.Info, width, height int) string {
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			detailLabelStyle.Render(label),
			detailValueStyle.Render(value)))
	}

	if icons.IsGlyph(item.value) {
		b.WriteString(glyphStyle.Render(item.value))
		b.WriteString("\n\n")
	}
	row("Name:", item.name)
	row("In set:", item.value)
	b.WriteString("\n")

	row("Resolves to:", info.Value)
	row("Kind:", string(info.Kind))
	if info.Set != "" {
		row("Set:", info.Set)
	}
	if info.Theme != "" {
		row("Theme:", fmt.Sprintf("%s (%dpx)", info.Theme, info.Size))
	}
	if info.Fallback {
		b.WriteString("  " + statusWarnStyle.Render("resolved by fallback") + "\n")
	}
	if len(info.Attempted) > 0 {
		row("Tried:", strings.Join(info.Attempted, " → "))
	}
	cached := ""
	if info.Cached {
		cached = " (cached)"
	}
	row("Took:", info.Duration.String()+cached)

	return detailBorderStyle.
		Width(width - 4).
		Height(height - 4).
		Render(b.String())
}
