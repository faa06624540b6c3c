package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/logtree/internal/config"
	"github.com/user/logtree/internal/document"
	"github.com/user/logtree/internal/parser"
	"github.com/user/logtree/internal/render"
	"github.com/user/logtree/internal/source"
	"github.com/user/logtree/internal/view"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

type tickMsg time.Time

// ModelOptions configures a viewer model
type ModelOptions struct {
	Filepath string
	Search   string
	Follow   bool
	Lexer    string
	Config   *config.Config
}

// row is one visible viewport row: a top-level line or a group child
type row struct {
	line  *document.Line
	child bool
}

// Model is the main application model
type Model struct {
	session   *parser.Session
	src       *source.File
	renderer  *render.Renderer
	colorizer *render.Colorizer
	viewport  *view.Viewport
	cfg       *config.Config

	searchInput textinput.Model
	mode        Mode
	width       int
	height      int

	rows     []row
	expanded bool // group children visible

	// Search state
	searchTerm string
	matchRows  []int
	matchIndex int

	// Follow state
	follow bool
	fed    int // source lines already ingested

	filename string
	err      error
}

// NewModel creates a viewer model over a log file
func NewModel(opts ModelOptions) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return nil, err
		}
	}

	src, err := source.Open(opts.Filepath)
	if err != nil {
		return nil, err
	}

	var colorizer *render.Colorizer
	if opts.Lexer != "" {
		colorizer = render.NewColorizer(opts.Lexer)
	}

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 256

	m := &Model{
		session:     parser.New(),
		src:         src,
		renderer:    render.New(cfg),
		colorizer:   colorizer,
		viewport:    view.NewViewport(80, 24),
		cfg:         cfg,
		searchInput: ti,
		mode:        ModeNormal,
		expanded:    true,
		follow:      opts.Follow,
		filename:    opts.Filepath,
	}

	m.ingest()
	m.viewport.SetProvider(m)
	m.viewport.SetShowGutter(cfg.Display.ShowLineNumbers)
	m.viewport.SetGutterStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.LineNumbers)))

	if opts.Search != "" {
		m.applySearch(opts.Search)
	}

	return m, nil
}

// ingest feeds unread source lines into the session
func (m *Model) ingest() {
	count := m.src.LineCount()
	for ; m.fed < count; m.fed++ {
		raw, err := m.src.Line(m.fed)
		if err != nil {
			m.err = err
			break
		}
		if m.colorizer != nil {
			raw = m.colorizer.Colorize(raw)
		}
		m.session.AddLine("", raw)
	}
	m.rebuildRows()
}

// rebuildRows flattens the session tree into visible viewport rows
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	for _, line := range m.session.Lines() {
		m.rows = append(m.rows, row{line: line})
		if line.Group == nil || !m.expanded {
			continue
		}
		for _, child := range line.Group.Children {
			m.rows = append(m.rows, row{line: child, child: true})
		}
	}
	m.rebuildMatches()
}

// rebuildMatches records which rows carry their own highlight spans
func (m *Model) rebuildMatches() {
	m.matchRows = m.matchRows[:0]
	for i, r := range m.rows {
		if len(r.line.Highlights) > 0 {
			m.matchRows = append(m.matchRows, i)
		}
	}
	if m.matchIndex >= len(m.matchRows) {
		m.matchIndex = 0
	}
}

// RowCount implements view.RowProvider
func (m *Model) RowCount() int { return len(m.rows) }

// Row implements view.RowProvider
func (m *Model) Row(i int) string {
	r := m.rows[i]
	out := m.renderer.Line(r.line, m.expanded)
	if r.child {
		return "  " + out
	}
	return out
}

// RowNumber implements view.RowProvider
func (m *Model) RowNumber(i int) int { return m.rows[i].line.Number }

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	if m.follow {
		return m.tick()
	}
	return nil
}

func (m *Model) tick() tea.Cmd {
	interval := time.Duration(m.cfg.Display.FollowInterval) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve 2 lines for status bar and help
		m.viewport.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tickMsg:
		if !m.follow {
			return m, nil
		}
		atBottom := m.viewport.PercentScrolled() >= 100
		if _, err := m.src.Refresh(); err != nil {
			m.err = err
		} else {
			m.ingest()
			if atBottom {
				m.viewport.GotoBottom()
			}
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeSearch {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)

	case "d", "ctrl+d", "f", "pgdown", " ":
		m.viewport.PageDown()
	case "u", "ctrl+u", "b", "pgup":
		m.viewport.PageUp()

	case "g", "home":
		m.viewport.GotoTop()
	case "G", "end":
		m.viewport.GotoBottom()

	case "c":
		m.expanded = !m.expanded
		m.rebuildRows()

	case "F":
		m.follow = !m.follow
		if m.follow {
			return m, m.tick()
		}

	case "/":
		m.mode = ModeSearch
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case "n":
		m.nextMatch()
	case "N":
		m.prevMatch()

	case "esc":
		m.applySearch("")
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.applySearch(m.searchInput.Value())
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// applySearch re-highlights the whole session for a new term
func (m *Model) applySearch(term string) {
	m.searchTerm = term
	m.session.SetSearch(term)
	m.rebuildMatches()

	if term != "" && len(m.matchRows) > 0 {
		m.matchIndex = 0
		m.viewport.GotoRow(m.matchRows[0])
	}
}

func (m *Model) nextMatch() {
	if len(m.matchRows) == 0 {
		return
	}
	m.matchIndex = (m.matchIndex + 1) % len(m.matchRows)
	m.viewport.GotoRow(m.matchRows[m.matchIndex])
}

func (m *Model) prevMatch() {
	if len(m.matchRows) == 0 {
		return
	}
	m.matchIndex--
	if m.matchIndex < 0 {
		m.matchIndex = len(m.matchRows) - 1
	}
	m.viewport.GotoRow(m.matchRows[m.matchIndex])
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	builder.WriteString(m.viewport.Render())
	builder.WriteString("\n")

	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.cfg.Theme.StatusBar)).
		Foreground(lipgloss.Color(m.cfg.Theme.StatusText)).
		Width(m.width)

	var status string
	if m.mode == ModeSearch {
		status = "/" + m.searchInput.View()
	} else {
		rowInfo := fmt.Sprintf("L%d/%d", m.viewport.CurrentRow()+1, len(m.rows))
		percent := fmt.Sprintf("%.0f%%", m.viewport.PercentScrolled())

		searchInfo := ""
		if m.searchTerm != "" {
			searchInfo = fmt.Sprintf(" [%d matches]", m.session.Matches())
		}
		followInfo := ""
		if m.follow {
			followInfo = " [following]"
		}

		status = fmt.Sprintf(" %s  %s  %s%s%s", m.filename, rowInfo, percent, searchInfo, followInfo)
	}

	builder.WriteString(statusStyle.Render(status))
	builder.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	help := "j/k:scroll  f/b:page  g/G:top/bottom  c:groups  /:search  n/N:next/prev  F:follow  q:quit"
	builder.WriteString(helpStyle.Render(help))

	return builder.String()
}

// Close cleans up resources
func (m *Model) Close() error {
	if m.src != nil {
		return m.src.Close()
	}
	return nil
}
