// Package tui is the interactive icon browser behind `icons browse`.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"desknotify/internal/icons"
	"desknotify/internal/notify"
)

// Sender delivers the test notification fired with enter.
type Sender interface {
	Send(ctx context.Context, n notify.Notification) notify.Result
}

// sentMsg carries the result of a test notification.
type sentMsg struct {
	icon string
	res  notify.Result
}

// Model browses one icon set at a time, with the selected icon's
// resolution through the active chain in the right panel.
type Model struct {
	icons  *icons.Manager
	sender Sender

	sets   []string
	setIdx int

	list     list.Model
	help     help.Model
	showHelp bool

	width, height int
	statusMsg     string
	err           string
}

func NewModel(im *icons.Manager, sender Sender) Model {
	sets := im.ListAll()
	idx := 0
	for i, s := range sets {
		if s == im.Active() {
			idx = i
		}
	}

	d := newStyledDelegate()
	d.ShowDescription = true
	var items []list.Item
	if len(sets) > 0 {
		items = loadIcons(im, sets[idx])
	}
	l := list.New(items, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return Model{
		icons:  im,
		sender: sender,
		sets:   sets,
		setIdx: idx,
		list:   l,
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) current() string {
	if len(m.sets) == 0 {
		return ""
	}
	return m.sets[m.setIdx]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Padding(1, 2) = 2 vertical, 4 horizontal
		innerWidth := m.width - 4
		innerHeight := m.height - 2

		// header(1) + gap(1) + help(2) + status(1) = 5
		m.list.SetSize(innerWidth/2, innerHeight-5)
		m.help.Width = innerWidth
		return m, nil

	case sentMsg:
		if msg.res.Success {
			m.err = ""
			m.statusMsg = fmt.Sprintf("Sent %q via %s (%s)", msg.icon, msg.res.Backend, msg.res.Outcome)
		} else {
			m.statusMsg = ""
			m.err = msg.res.Error
		}
		return m, nil

	case tea.KeyMsg:
		// Don't intercept keys while filtering
		if m.list.FilterState() == list.Filtering {
			return m.updateList(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.NextSet):
			return m.switchSet(1)

		case key.Matches(msg, keys.PrevSet):
			return m.switchSet(-1)

		case key.Matches(msg, keys.Activate):
			if err := m.icons.SetActive(m.current()); err != nil {
				m.statusMsg, m.err = "", err.Error()
			} else {
				m.err, m.statusMsg = "", "Active icon set: "+m.current()
			}
			return m, nil

		case key.Matches(msg, keys.Send):
			item, ok := m.list.SelectedItem().(iconItem)
			if !ok {
				return m, nil
			}
			if m.sender == nil {
				m.statusMsg, m.err = "", "no notification backend available"
				return m, nil
			}
			return m, m.send(item.name)

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		}
	}

	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) switchSet(step int) (tea.Model, tea.Cmd) {
	if len(m.sets) < 2 {
		return m, nil
	}
	m.setIdx = (m.setIdx + step + len(m.sets)) % len(m.sets)
	m.list.ResetFilter()
	cmd := m.list.SetItems(loadIcons(m.icons, m.current()))
	m.list.ResetSelected()
	m.statusMsg, m.err = "", ""
	return m, cmd
}

func (m Model) send(name string) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		res := sender.Send(ctx, notify.Notification{
			Icon:    name,
			Title:   "Icon preview",
			Message: fmt.Sprintf("Icon: %s", name),
			Timeout: notify.Timeout(3000),
		})
		return sentMsg{icon: name, res: res}
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	innerWidth := m.width - 4

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	leftWidth := innerWidth / 2
	rightWidth := innerWidth - leftWidth - 2
	contentHeight := m.height - 7

	leftPanel := m.list.View()
	var rightPanel string
	if set, ok := m.icons.Get(m.current()); ok && !set.Available() {
		leftPanel = statusWarnStyle.Render("  Icon set not available on this system")
	} else if item, ok := m.list.SelectedItem().(iconItem); ok {
		rightPanel = renderIconDetail(item, m.icons.Resolve(item.name), rightWidth, contentHeight)
	}

	b.WriteString(lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(leftWidth).Render(leftPanel),
		lipgloss.NewStyle().Width(rightWidth).MarginLeft(2).Render(rightPanel),
	))

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(statusErrorStyle.Render("  Error: " + m.err))
	} else if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(statusOkStyle.Render("  " + m.statusMsg))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(keys)))

	return appStyle.Render(b.String())
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(" 🔔 icons ")

	tabs := make([]string, 0, len(m.sets))
	for i, name := range m.sets {
		style := inactiveTabStyle
		if set, ok := m.icons.Get(name); ok && !set.Available() {
			style = unavailableTabStyle
		}
		if i == m.setIdx {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(name))
	}

	active := lipgloss.NewStyle().Foreground(mutedColor).Render("Active: " + m.icons.Active())
	row := strings.Join(tabs, "  ")
	gap := strings.Repeat(" ", max(0, m.width-4-lipgloss.Width(title)-lipgloss.Width(row)-lipgloss.Width(active)-4))
	return fmt.Sprintf("%s  %s%s  %s", title, row, gap, active)
}

// Run starts the browser on the terminal.
func Run(im *icons.Manager, sender Sender) error {
	p := tea.NewProgram(NewModel(im, sender), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
