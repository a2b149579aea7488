// Package tui implements the Bubble Tea interface over a commit session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/sprite-ai/commitwiz/internal/diff"
	"github.com/sprite-ai/commitwiz/internal/editor"
	"github.com/sprite-ai/commitwiz/internal/session"
)

type pickMode int

const (
	pickNone pickMode = iota
	pickMove
	pickMerge
)

type aiDoneMsg struct {
	description string
	body        []string
	err         error
}

type editorDoneMsg struct {
	text string
	err  error
}

// Model is the top-level Bubble Tea model for commitwiz.
type Model struct {
	ctx         context.Context
	sess        *session.Session
	log         zerolog.Logger
	editorCmd   string
	highlighter *diff.Highlighter

	// UI state
	width  int
	height int

	fileCursor int // file within the selected group
	pick       pickMode
	pickTarget int
	scoping    bool
	notice     string // errors the session does not report itself
	showHelp   bool

	textarea textarea.Model
	scope    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	// Diff viewer
	diffSet   *diff.DiffSet
	diffErr   error
	splitView bool

	committed []string
}

// Option configures a Model.
type Option func(*Model)

// WithEditor sets the external editor command.
func WithEditor(cmd string) Option {
	return func(m *Model) {
		if cmd != "" {
			m.editorCmd = cmd
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(m *Model) { m.log = l } }

// WithDiffStyle sets the chroma style of the diff viewer.
func WithDiffStyle(name string) Option {
	return func(m *Model) {
		if name != "" {
			m.highlighter = diff.NewHighlighter(name)
		}
	}
}

// New creates a TUI model driving sess. ctx bounds every git and assistant
// call made from the UI.
func New(ctx context.Context, sess *session.Session, opts ...Option) Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Placeholder = "description\n\nbody"

	ti := textinput.New()
	ti.Prompt = "scope: "
	ti.Placeholder = "empty removes the scope"
	ti.CharLimit = 40

	m := Model{
		ctx:         ctx,
		sess:        sess,
		log:         zerolog.Nop(),
		editorCmd:   editor.Resolve(""),
		highlighter: diff.NewHighlighter(diff.DefaultStyle),
		textarea:    ta,
		scope:       ti,
		viewport:    viewport.New(80, 20),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		help:        help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case aiDoneMsg:
		m.note(m.sess.FinishAI(msg.description, msg.body, msg.err))
		return m, nil

	case editorDoneMsg:
		m.note(m.sess.FinishEdit(msg.text, msg.err))
		return m, nil

	case spinner.TickMsg:
		if m.sess.Mode() != session.AwaitingAI {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and the like go to whichever input is focused.
	var cmd tea.Cmd
	switch {
	case m.sess.Mode() == session.Editing:
		m.textarea, cmd = m.textarea.Update(msg)
	case m.scoping:
		m.scope, cmd = m.scope.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	m.notice = ""

	if m.showHelp {
		if key.Matches(msg, keys.Help, keys.Cancel, keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch m.sess.Mode() {
	case session.Editing:
		return m.updateEditing(msg)
	case session.ViewingDiff:
		return m.updateDiff(msg)
	case session.AwaitingAI:
		if key.Matches(msg, keys.Quit) {
			return m.quit()
		}
		return m, nil
	case session.Terminated:
		return m, tea.Quit
	}

	switch {
	case m.scoping:
		return m.updateScope(msg)
	case m.pick != pickNone:
		return m.updatePick(msg)
	}
	return m.updateBrowsing(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.sess.Quit()
	return m, tea.Quit
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.Help):
		m.showHelp = true

	case key.Matches(msg, keys.Clear):
		m.sess.ClearStatus()

	case key.Matches(msg, keys.Up):
		m.note(m.sess.SelectPrevious())
		m.fileCursor = 0

	case key.Matches(msg, keys.Down):
		m.note(m.sess.SelectNext())
		m.fileCursor = 0

	case key.Matches(msg, keys.NextFile):
		m.moveFileCursor(1)

	case key.Matches(msg, keys.PrevFile):
		m.moveFileCursor(-1)

	case key.Matches(msg, keys.Edit):
		buf, err := m.sess.BeginEdit()
		if err != nil {
			m.note(err)
			return m, nil
		}
		m.textarea.SetValue(buf)
		cmd := m.textarea.Focus()
		return m, cmd

	case key.Matches(msg, keys.External):
		cmd := m.openExternal()
		return m, cmd

	case key.Matches(msg, keys.Diff):
		if err := m.sess.OpenDiff(); err != nil {
			m.note(err)
			return m, nil
		}
		m.loadDiff()

	case key.Matches(msg, keys.Generate):
		cmd := m.generate()
		return m, cmd

	case key.Matches(msg, keys.CycleType):
		m.note(m.sess.CycleType())

	case key.Matches(msg, keys.Scope):
		g, ok := m.sess.Selected()
		if !ok {
			m.note(session.ErrEmpty)
			return m, nil
		}
		m.scoping = true
		m.scope.SetValue(g.Scope)
		m.scope.CursorEnd()
		cmd := m.scope.Focus()
		return m, cmd

	case key.Matches(msg, keys.Move):
		m.startPick(pickMove)

	case key.Matches(msg, keys.Merge):
		m.startPick(pickMerge)

	case key.Matches(msg, keys.Commit):
		if m.sess.Empty() {
			m.note(session.ErrEmpty)
			return m, nil
		}
		header := m.sess.HeaderOf(m.sess.SelectedIndex())
		if err := m.sess.Commit(m.ctx); err != nil {
			m.note(err)
			return m, nil
		}
		m.committed = append(m.committed, header)
		m.fileCursor = 0

	case key.Matches(msg, keys.CommitAll):
		m.commitAll()
	}

	return m, nil
}

func (m *Model) commitAll() {
	if m.sess.Empty() {
		m.note(session.ErrEmpty)
		return
	}
	headers := make([]string, m.sess.Len())
	for i := range headers {
		headers[i] = m.sess.HeaderOf(i)
	}
	m.fileCursor = 0

	err := m.sess.CommitAll(m.ctx)
	var cae *session.CommitAllError
	switch {
	case err == nil:
		m.committed = append(m.committed, headers...)
	case errors.As(err, &cae):
		m.committed = append(m.committed, headers[:cae.Index]...)
	default:
		m.note(err)
	}
}

func (m *Model) startPick(mode pickMode) {
	if m.sess.Empty() {
		m.note(session.ErrEmpty)
		return
	}
	if m.sess.Len() < 2 {
		m.notice = "No other group to choose"
		return
	}
	m.pick = mode
	m.pickTarget = (m.sess.SelectedIndex() + 1) % m.sess.Len()
}

func (m Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.sess.Len()
	switch {
	case key.Matches(msg, keys.Cancel):
		m.pick = pickNone

	case key.Matches(msg, keys.Up):
		m.pickTarget = (m.pickTarget - 1 + n) % n

	case key.Matches(msg, keys.Down):
		m.pickTarget = (m.pickTarget + 1) % n

	case key.Matches(msg, keys.Confirm):
		var err error
		if m.pick == pickMove {
			path, ok := m.cursorPath()
			if !ok {
				err = session.ErrEmpty
			} else {
				err = m.sess.MoveFile(path, m.pickTarget)
			}
		} else {
			err = m.sess.MergeInto(m.pickTarget)
		}
		m.pick = pickNone
		m.fileCursor = 0
		m.note(err)
	}
	return m, nil
}

func (m Model) updateScope(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		m.note(m.sess.SetScope(m.scope.Value()))
		m.scoping = false
		m.scope.Blur()
		return m, nil

	case key.Matches(msg, keys.Cancel):
		m.scoping = false
		m.scope.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.scope, cmd = m.scope.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Save):
		// An empty description keeps the editor open; the session reports it.
		if err := m.sess.SaveEdit(m.textarea.Value()); err == nil {
			m.textarea.Blur()
		}
		return m, nil

	case key.Matches(msg, keys.Cancel):
		m.note(m.sess.CancelEdit())
		m.textarea.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) updateDiff(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel, keys.Quit, keys.Diff):
		m.note(m.sess.CloseDiff())
		m.diffSet, m.diffErr = nil, nil
		return m, nil

	case key.Matches(msg, keys.NextFile):
		m.note(m.sess.NextDiffFile())
		m.loadDiff()
		return m, nil

	case key.Matches(msg, keys.PrevFile):
		m.note(m.sess.PrevDiffFile())
		m.loadDiff()
		return m, nil

	case key.Matches(msg, keys.Toggle):
		m.splitView = !m.splitView
		m.refreshDiff()
		return m, nil

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// generate starts an assistant call for the selected group. The call runs
// off the event loop and reports back with an aiDoneMsg.
func (m *Model) generate() tea.Cmd {
	prompt, err := m.sess.BeginAI(m.ctx)
	if err != nil {
		m.note(err)
		return nil
	}
	ctx, assistant, timeout := m.ctx, m.sess.Assistant(), m.sess.AITimeout()
	m.log.Debug().Int("group", m.sess.SelectedIndex()).Msg("generating message")

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		desc, body, err := session.Ask(ctx, assistant, prompt, timeout)
		return aiDoneMsg{description: desc, body: body, err: err}
	})
}

// openExternal suspends the TUI and edits the selected message in the
// configured editor.
func (m *Model) openExternal() tea.Cmd {
	buf, err := m.sess.BeginEdit()
	if err != nil {
		m.note(err)
		return nil
	}
	p, err := editor.Prepare(m.ctx, m.editorCmd, buf, m.log)
	if err != nil {
		m.note(m.sess.FinishEdit("", err))
		return nil
	}
	return tea.ExecProcess(p.Cmd, func(err error) tea.Msg {
		text, ferr := p.Finish(err)
		return editorDoneMsg{text: text, err: ferr}
	})
}

// note shows err unless the session already put it on the status line.
func (m *Model) note(err error) {
	if err == nil {
		return
	}
	m.log.Debug().Err(err).Str("mode", m.sess.Mode().String()).Msg("action rejected")
	if st := m.sess.Status(); st.Error {
		return
	}
	m.notice = err.Error()
}

func (m *Model) moveFileCursor(delta int) {
	g, ok := m.sess.Selected()
	if !ok || len(g.Files) == 0 {
		return
	}
	n := len(g.Files)
	m.fileCursor = (min(m.fileCursor, n-1) + delta + n) % n
}

// cursorPath returns the path under the file cursor.
func (m Model) cursorPath() (string, bool) {
	g, ok := m.sess.Selected()
	if !ok || len(g.Files) == 0 {
		return "", false
	}
	return g.Files[min(m.fileCursor, len(g.Files)-1)].Path, true
}

func (m *Model) loadDiff() {
	m.diffSet, m.diffErr = nil, nil
	raw, err := m.sess.Diff(m.ctx)
	if err != nil {
		m.diffErr = err
	} else {
		m.diffSet, m.diffErr = diff.Parse(raw)
	}
	m.refreshDiff()
	m.viewport.GotoTop()
}

func (m *Model) refreshDiff() {
	if m.diffErr != nil {
		m.viewport.SetContent(deletedLineStyle.Render("Diff unavailable: " + m.diffErr.Error()))
		return
	}
	m.viewport.SetContent(renderDiffContent(m.highlighter, m.diffSet, m.viewport.Width, m.splitView))
}

func (m *Model) resize() {
	m.help.Width = m.width
	bodyHeight := m.bodyHeight()

	// Borders plus the file header above the viewport.
	m.viewport.Width = max(m.width-4, 10)
	m.viewport.Height = max(bodyHeight-4, 1)

	m.textarea.SetWidth(max(m.width-m.groupListWidth()-5, 10))
	m.textarea.SetHeight(max(bodyHeight-3, 3))

	if m.sess.Mode() == session.ViewingDiff {
		m.refreshDiff()
	}
}

// bodyHeight leaves room for the status and help bars.
func (m Model) bodyHeight() int {
	return max(m.height-2, 3)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.sess.Mode() == session.Terminated {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}

	height := m.bodyHeight()
	var body string
	if m.sess.Mode() == session.ViewingDiff {
		body = m.renderDiffPanel(m.width, height)
	} else {
		leftWidth := m.groupListWidth()
		rightWidth := m.width - leftWidth - 1

		var right string
		if m.sess.Mode() == session.Editing {
			right = m.renderEditor(rightWidth, height)
		} else {
			msgHeight := height / 2
			right = lipgloss.JoinVertical(lipgloss.Left,
				m.renderMessage(rightWidth, msgHeight),
				m.renderFiles(rightWidth, height-msgHeight),
			)
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderGroupList(leftWidth, height), " ", right)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar(), m.renderHelpBar())
}

func (m Model) groupListWidth() int {
	maxLen := 30
	for i := range m.sess.Len() {
		if n := lipgloss.Width(m.sess.HeaderOf(i)) + 6; n > maxLen {
			maxLen = n
		}
	}
	w := maxLen + 4
	if w > m.width*2/5 {
		w = m.width * 2 / 5
	}
	if w < 24 {
		w = 24
	}
	return w
}

func (m Model) renderStatusBar() string {
	mode := m.sess.Mode()
	left := statusModeStyle.Render(strings.ToUpper(mode.String()))
	if n := m.sess.Len(); n > 0 {
		left += fmt.Sprintf("  Group %d/%d", m.sess.SelectedIndex()+1, n)
	}
	if mode == session.AwaitingAI {
		left += "  " + m.spinner.View()
	}

	var right string
	st := m.sess.Status()
	switch {
	case m.scoping:
		right = m.scope.View()
	case m.notice != "":
		right = statusErrorStyle.Render(m.notice)
	case st.Error:
		right = statusErrorStyle.Render(st.Text)
	case st.Text != "":
		right = statusInfoStyle.Render(st.Text)
	}
	if !m.sess.AIAvailable() {
		left += "  AI off"
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelpBar() string {
	var bindings []key.Binding
	switch {
	case m.sess.Mode() == session.Editing:
		bindings = []key.Binding{keys.Save, keys.Cancel}
	case m.sess.Mode() == session.ViewingDiff:
		bindings = keys.diffKeys()
	case m.sess.Mode() == session.AwaitingAI:
		bindings = []key.Binding{keys.Quit}
	case m.scoping:
		bindings = []key.Binding{keys.Confirm, keys.Cancel}
	case m.pick != pickNone:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Confirm, keys.Cancel}
	default:
		bindings = []key.Binding{keys.Down, keys.Edit, keys.Generate, keys.Diff, keys.Commit, keys.CommitAll, keys.Help, keys.Quit}
	}
	return m.help.ShortHelpView(bindings)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("commitwiz: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Groups", keys.browsingKeys()},
		{"Diff viewer", keys.diffKeys()},
		{"Editing", []key.Binding{keys.Save, keys.Cancel}},
	}
	for _, s := range sections {
		b.WriteString(panelTitleStyle.Render(s.title))
		b.WriteString("\n")
		for _, kb := range s.bindings {
			h := kb.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n", helpKeyStyle.Width(12).Render(h.Key), h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpBarStyle.Render("Press ? to close help"))
	return b.String()
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session, opts ...Option) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, sess, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()

	out := Outcome{Remaining: sess.Groups()}
	if fm, ok := final.(Model); ok {
		out.Committed = fm.committed
	}
	return out, err
}
