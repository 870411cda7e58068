package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scrcpyctl/internal/app"
	"scrcpyctl/internal/inventory"
)

const refreshTimeout = 4 * time.Second

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Refresh(context.Context, app.RefreshParams) (app.Snapshot, error)
	Rename(context.Context, app.RenameParams) (string, error)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	detailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginBottom(1)
)

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller

	list     list.Model
	input    textinput.Model
	editing  bool
	snapshot app.Snapshot

	statusMsg string
	err       error
	loading   bool

	width  int
	height int

	lastUpdated time.Time
}

// New constructs a TUI model with default styles.
func New(ctrl Controller) *Model {
	delegate := list.NewDefaultDelegate()
	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "scrcpy instances"
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "leave empty for the generated name"
	input.CharLimit = 120
	input.Prompt = "name> "

	return &Model{
		controller: ctrl,
		list:       lst,
		input:      input,
		statusMsg:  "Scanning…",
		loading:    true,
	}
}

// Run spins up the Bubble Tea program with sensible defaults.
func Run(ctrl Controller) error {
	m := New(ctrl)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return refreshCmd(m.controller)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 6 {
			m.list.SetSize(msg.Width, msg.Height-6)
		}

	case snapshotMsg:
		m.loading = false
		m.err = nil
		m.snapshot = msg.snapshot
		m.list.SetItems(itemsFor(msg.snapshot))
		m.lastUpdated = time.Now()
		m.statusMsg = fmt.Sprintf("%d instance(s) on %d device(s).", inventory.Count(msg.snapshot.Groups), len(msg.snapshot.Groups))
		if len(msg.snapshot.Warnings) > 0 {
			m.statusMsg += " " + strings.Join(msg.snapshot.Warnings, "; ")
		}

	case renamedMsg:
		m.statusMsg = fmt.Sprintf("Renamed to %q.", msg.name)
		m.loading = true
		return m, refreshCmd(m.controller)

	case errMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, refreshCmd(m.controller)
		case "e":
			if inst := m.currentInstance(); inst != nil {
				m.editing = true
				if inst.Custom {
					m.input.SetValue(inst.Name)
				} else {
					m.input.SetValue("")
				}
				m.input.CursorEnd()
				return m, m.input.Focus()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopEditing()
		m.statusMsg = "Rename cancelled."
		return m, nil
	case tea.KeyEnter:
		inst := m.currentInstance()
		name := m.input.Value()
		m.stopEditing()
		if inst == nil {
			return m, nil
		}
		return m, renameCmd(m.controller, app.RenameParams{Key: inst.Key, Name: name, Outside: inst.Outside})
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(okStyle.Render(m.statusMsg))
	b.WriteByte('\n')

	if m.loading {
		b.WriteString("Scanning for scrcpy instances…\n")
	} else if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	if len(m.list.Items()) == 0 && !m.loading && m.err == nil {
		b.WriteString("No devices or instances found.\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteByte('\n')
	}

	if inst := m.currentInstance(); inst != nil {
		detail := fmt.Sprintf(
			"%s\nkey=%s pid=%d number=%d\nserial=%s conn=%s\nflags=%s",
			inst.Name,
			inst.Key,
			inst.Record.PID,
			inst.Number,
			valueOrDash(inst.Serial),
			inst.Conn,
			valueOrDash(strings.Join(inst.Flags, " ")),
		)
		b.WriteString(detailStyle.Render(detail))
		b.WriteByte('\n')
	}

	if m.editing {
		b.WriteString(m.input.View())
		b.WriteByte('\n')
		b.WriteString(helpStyle.Render("enter save • esc cancel"))
		return b.String()
	}

	help := "Commands: q quit • r rescan • e rename"
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last scan %s", m.lastUpdated.Format(time.Kitchen))
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// groupItem is the header row of a device section.
type groupItem struct {
	Group inventory.Group
}

func (g groupItem) Title() string {
	return headerStyle.Render(groupTitle(g.Group))
}

func (g groupItem) Description() string {
	return fmt.Sprintf("%d instance(s)", len(g.Group.Instances))
}

func (g groupItem) FilterValue() string { return g.Group.Serial }

func groupTitle(g inventory.Group) string {
	switch {
	case g.Card != nil && g.Card.Title != g.Serial:
		return fmt.Sprintf("%s (%s)", g.Card.Title, g.Serial)
	case g.Card != nil:
		return g.Serial
	case g.Serial == inventory.UnknownSerial:
		return "Unknown device"
	default:
		return g.Serial + " (not connected)"
	}
}

// instanceItem adapts inventory.Instance to the bubbles list item interface.
type instanceItem struct {
	Instance inventory.Instance
}

func (i instanceItem) Title() string {
	mark := " "
	if i.Instance.Custom {
		mark = "✎"
	}
	return fmt.Sprintf("  %s %s", mark, i.Instance.Name)
}

func (i instanceItem) Description() string {
	return fmt.Sprintf("  pid=%d %s %s", i.Instance.Record.PID, i.Instance.Conn, valueOrDash(strings.Join(i.Instance.Flags, " ")))
}

func (i instanceItem) FilterValue() string {
	return i.Instance.Name + " " + i.Instance.Serial
}

func itemsFor(snap app.Snapshot) []list.Item {
	items := make([]list.Item, 0, len(snap.Groups)+inventory.Count(snap.Groups))
	for _, g := range snap.Groups {
		items = append(items, groupItem{Group: g})
		for _, inst := range g.Instances {
			items = append(items, instanceItem{Instance: inst})
		}
	}
	return items
}

func (m *Model) currentInstance() *inventory.Instance {
	item, ok := m.list.SelectedItem().(instanceItem)
	if !ok {
		return nil
	}
	return &item.Instance
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type snapshotMsg struct {
	snapshot app.Snapshot
}

type renamedMsg struct {
	name string
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func refreshCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		snap, err := ctrl.Refresh(ctx, app.RefreshParams{Timeout: refreshTimeout})
		if err != nil {
			return errMsg{err}
		}
		return snapshotMsg{snapshot: snap}
	}
}

func renameCmd(ctrl Controller, params app.RenameParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		name, err := ctrl.Rename(ctx, params)
		if err != nil {
			return errMsg{err}
		}
		return renamedMsg{name: name}
	}
}
