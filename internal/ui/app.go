package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/bountyclock/internal/bounty"
	"github.com/five82/bountyclock/internal/prefs"
	"github.com/five82/bountyclock/internal/state"
	"github.com/five82/bountyclock/internal/stats"
)

const (
	defaultRefresh = 100 * time.Millisecond
	startingStatus = "starting..."
)

// SnapshotSource provides the state rendered by the overlay.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     SnapshotSource
	Refresh   time.Duration // zero uses 100ms
	ThemeName string
	Details   bool
	PrefsPath string
}

// Model is the root overlay state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     SnapshotSource
	prefsPath string
	refresh   time.Duration

	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	details  bool
	showHelp bool

	snapshot state.Snapshot
	prefsErr error
	quitting bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		prefsPath: prefsPath,
		refresh:   refresh,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		details:   opts.Details,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refresh)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.ctx.Err() != nil {
			m.quitting = true
			return m, tea.Quit
		}
		cmds := []tea.Cmd{tickCmd(m.refresh)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case prefsSavedMsg:
		m.prefsErr = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, m.savePrefsCmd()
	case key.Matches(msg, m.keys.ToggleDetails):
		m.details = !m.details
		return m, m.savePrefsCmd()
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderStatus(styles))
	b.WriteString("\n")
	b.WriteString(m.renderStats(styles))
	b.WriteString("\n")
	if m.details {
		b.WriteString(m.renderDetails(styles))
	}
	if footer := m.renderFooter(styles); footer != "" {
		b.WriteString(footer)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderStatus(styles Styles) string {
	v := m.snapshot.View
	text := v.Status
	if !m.snapshot.HasView || text == "" {
		text = startingStatus
	}
	style := styles.Text
	if v.HasBounty {
		switch v.Bounty.Validity {
		case bounty.ValidityWanted:
			style = styles.SuccessText
		case bounty.ValidityUnwanted:
			style = styles.DangerText
		}
	}
	return " " + style.Render(text)
}

func (m Model) renderStats(styles Styles) string {
	v := m.snapshot.View
	field := func(label, value string) string {
		return styles.Label.Render(label+":") + " " + styles.Value.Render(value)
	}

	best := "-"
	if v.Best.Overall.Set {
		best = FormatSeconds(v.Best.Overall.Value)
	}
	stageKind := v.Session.StageKind
	stageBest := "-"
	if rec := v.Best.Stage(stageKind); rec.Set {
		stageBest = FormatSeconds(rec.Value)
	}

	parts := []string{
		field("Bounties Completed", fmt.Sprintf("%d", v.Session.Cycles)),
		field("Timer", FormatDuration(m.snapshot.MissionTimer())),
		field("Best Time", best),
		field("Average", FormatSeconds(v.Average)),
		field("Median", FormatSeconds(v.Median)),
		field("Stage Timer", FormatDuration(m.snapshot.StageTimer())),
		field("Best "+stageKind.Label(), stageBest),
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderDetails(styles Styles) string {
	v := m.snapshot.View
	var b strings.Builder
	b.WriteString(" " + styles.AccentText.Bold(true).Render("Stage bests"))
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("  (%d averaged runs)", v.Samples)))
	b.WriteString("\n")
	for _, k := range stats.TrackedKinds {
		value := "-"
		if rec := v.Best.Stage(k); rec.Set {
			value = FormatSeconds(rec.Value)
		}
		label := styles.Label.Width(14).Render(k.Label())
		b.WriteString("   " + label + styles.Value.Render(value) + "\n")
	}
	return b.String()
}

func (m Model) renderFooter(styles Styles) string {
	var msgs []string
	if err := m.snapshot.LastError; err != nil {
		if m.snapshot.IsStalled() {
			msgs = append(msgs, styles.DangerText.Render("log unreadable: "+err.Error()))
		} else {
			msgs = append(msgs, styles.WarningText.Render("log read failed: "+err.Error()))
		}
	}
	if m.prefsErr != nil {
		msgs = append(msgs, styles.WarningText.Render("save prefs: "+m.prefsErr.Error()))
	}
	if len(msgs) == 0 {
		return ""
	}
	return styles.Footer.Render(strings.Join(msgs, "  "))
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type prefsSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store SnapshotSource) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) savePrefsCmd() tea.Cmd {
	p := prefs.Prefs{Theme: m.theme.Name, Details: m.details}
	path := m.prefsPath
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
