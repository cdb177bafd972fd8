package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/quiz-runner/internal/storage"
)

// Results board layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the quiz list sidebar
	sidebarWidth       = 24  // Width of the quiz list sidebar
	maxResults         = 100 // Max results to load per quiz
)

// ResultsStore is the part of the result store the board reads.
type ResultsStore interface {
	TopResults(quizID string, limit int) ([]storage.Result, error)
	GetAllQuizStats() (map[string]*storage.QuizStats, error)
}

// ResultsKeyMap defines the key bindings for the results board.
type ResultsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextQuiz key.Binding
	PrevQuiz key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextQuiz, k.PrevQuiz, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.NextQuiz, k.PrevQuiz}, {k.Quit}}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextQuiz: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next quiz"),
		),
		PrevQuiz: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev quiz"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ResultsModel is the Bubble Tea model for the results board.
type ResultsModel struct {
	store       ResultsStore
	quizzes     []*storage.QuizStats
	cursor      int
	results     []storage.Result
	table       table.Model
	help        help.Model
	keys        ResultsKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewResultsModel creates a results board. focus selects the initial quiz
// when it has results.
func NewResultsModel(store ResultsStore, focus string, width, height int) ResultsModel {
	m := ResultsModel{
		store:       store,
		keys:        DefaultResultsKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()

	if store != nil {
		if stats, err := store.GetAllQuizStats(); err == nil {
			for _, st := range stats {
				m.quizzes = append(m.quizzes, st)
			}
			sort.Slice(m.quizzes, func(i, j int) bool {
				return m.quizzes[i].QuizID < m.quizzes[j].QuizID
			})
		}
	}
	for i, q := range m.quizzes {
		if q.QuizID == focus {
			m.cursor = i
		}
	}
	m.loadResults()
	return m
}

// Quizzes returns the ids listed on the board.
func (m ResultsModel) Quizzes() []string {
	ids := make([]string, len(m.quizzes))
	for i, q := range m.quizzes {
		ids[i] = q.QuizID
	}
	return ids
}

// Selected returns the quiz whose results are shown, or "".
func (m ResultsModel) Selected() string {
	if len(m.quizzes) == 0 {
		return ""
	}
	return m.quizzes[m.cursor].QuizID
}

func (m *ResultsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Points", Width: 8},
		{Title: "Answered", Width: 10},
		{Title: "Result", Width: 10},
		{Title: "Player", Width: 12},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(atLeastOne(m.height-8)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (m *ResultsModel) loadResults() {
	m.results = nil
	if id := m.Selected(); id != "" && m.store != nil {
		if results, err := m.store.TopResults(id, maxResults); err == nil {
			m.results = results
		}
	}
	m.updateTableRows()
}

func (m *ResultsModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		status := "out"
		if r.Completed {
			status = "complete"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Points),
			fmt.Sprintf("%d/%d", r.Answered, r.Total),
			status,
			r.Player,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the results board.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results board.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextQuiz):
			if len(m.quizzes) > 0 {
				m.cursor = (m.cursor + 1) % len(m.quizzes)
				m.loadResults()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevQuiz):
			if len(m.quizzes) > 0 {
				m.cursor = (m.cursor - 1 + len(m.quizzes)) % len(m.quizzes)
				m.loadResults()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results board.
func (m ResultsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "RESULTS"
	if id := m.Selected(); id != "" {
		title = fmt.Sprintf("RESULTS - %s", id)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := boxStyle.Render(m.renderTableContent())
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	} else if len(m.quizzes) > 1 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.Selected()), m.width))
		b.WriteString("\n\n")
	}
	b.WriteString(content)

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ResultsModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Quizzes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, q := range m.quizzes {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := q.QuizID
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(fmt.Sprintf("%s%s (%d)", cursor, name, q.Runs)))
		sidebar.WriteString("\n")
	}
	return sidebarStyle.Render(sidebar.String())
}

func (m ResultsModel) renderTableContent() string {
	if len(m.results) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nFinish a quiz to get on the board!")
	}
	return m.table.View()
}

// RunResults runs the results board.
func RunResults(store ResultsStore, focus string, width, height int) error {
	p := tea.NewProgram(NewResultsModel(store, focus, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
