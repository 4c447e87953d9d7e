package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"desknotify/internal/icons"
	"desknotify/internal/notify"
)

type fakeSender struct{ got []notify.Notification }

func (f *fakeSender) Send(_ context.Context, n notify.Notification) notify.Result {
	f.got = append(f.got, n)
	return notify.Result{Success: true, Outcome: notify.OutcomeSent, Backend: "fake"}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func TestNewModel_ListsActiveSet(t *testing.T) {
	im := icons.NewManager("minimal", 16)
	m := sized(t, NewModel(im, nil))

	set, _ := im.Get("minimal")
	if got, want := len(m.list.Items()), len(set.List()); got != want {
		t.Fatalf("items = %d, want %d", got, want)
	}
	view := m.View()
	if !strings.Contains(view, "minimal") || !strings.Contains(view, "Resolves to:") {
		t.Fatalf("view missing set tab or detail panel:\n%s", view)
	}
}

func TestModel_SendSelected(t *testing.T) {
	sender := &fakeSender{}
	m := sized(t, NewModel(icons.NewManager("minimal", 16), sender))
	selected := m.list.SelectedItem().(iconItem)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should return a send command")
	}
	msg := cmd()
	if len(sender.got) != 1 || sender.got[0].Icon != selected.name {
		t.Fatalf("sender got %+v, want icon %q", sender.got, selected.name)
	}

	next, _ = next.(Model).Update(msg)
	if status := next.(Model).statusMsg; !strings.Contains(status, "via fake") {
		t.Fatalf("statusMsg = %q", status)
	}
}

func TestModel_SendWithoutBackend(t *testing.T) {
	m := sized(t, NewModel(icons.NewManager("minimal", 16), nil))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("no command expected without a sender")
	}
	if next.(Model).err == "" {
		t.Fatal("expected an error message")
	}
}

func TestModel_ActivateAndQuit(t *testing.T) {
	im := icons.NewManager("auto", 16)
	m := sized(t, NewModel(im, nil))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if got := next.(Model).statusMsg; got != "Active icon set: minimal" {
		t.Fatalf("statusMsg = %q", got)
	}

	// A single set cannot be cycled.
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(Model).current() != "minimal" {
		t.Fatalf("current = %q, want minimal", next.(Model).current())
	}

	_, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should produce tea.QuitMsg")
	}
}

func TestIconItem(t *testing.T) {
	glyph := iconItem{name: "mic", value: "🎤"}
	if glyph.Title() != "🎤  mic" || glyph.FilterValue() != "mic" {
		t.Fatalf("glyph item: title %q filter %q", glyph.Title(), glyph.FilterValue())
	}
	path := iconItem{name: "info", value: "/usr/share/icons/info.svg"}
	if path.Title() != "info" || path.Description() != path.value {
		t.Fatalf("path item: title %q desc %q", path.Title(), path.Description())
	}
}
