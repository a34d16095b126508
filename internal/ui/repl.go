package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Runner executes one input line and returns what to print. quit ends the
// program after the output is shown.
type Runner func(line string) (output string, quit bool)

// maxTranscript caps the lines kept in the scrollback.
const maxTranscript = 2000

type replModel struct {
	title   string
	run     Runner
	input   textinput.Model
	view    viewport.Model
	lines   []string
	history []string
	histPos int // len(history) when not browsing
	width   int
	height  int
	quit    bool
}

var (
	replTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	replEchoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	replFooterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// NewREPLModel returns the interactive prompt. keywords feed the input's
// completion suggestions.
func NewREPLModel(title string, keywords []string, run Runner) tea.Model {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = replEchoStyle
	in.Placeholder = "ATOMIC int 4 4"
	in.ShowSuggestions = true
	in.SetSuggestions(keywords)
	in.Focus()

	vp := viewport.New(80, 20)
	return &replModel{
		title:  title,
		run:    run,
		input:  in,
		view:   vp,
		width:  80,
		height: 24,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-4, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			m.quit = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyUp:
			m.browse(-1)
			return m, nil
		case tea.KeyDown:
			m.browse(+1)
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) submit() tea.Cmd {
	line := m.input.Value()
	m.input.Reset()
	m.histPos = len(m.history)
	if strings.TrimSpace(line) == "" {
		return nil
	}
	m.history = append(m.history, line)
	m.histPos = len(m.history)

	m.append(replEchoStyle.Render("> " + line))
	out, quit := m.run(line)
	if out = strings.TrimRight(out, "\n"); out != "" {
		m.append(strings.Split(out, "\n")...)
	}
	m.refresh()
	if quit {
		m.quit = true
		return tea.Quit
	}
	return nil
}

func (m *replModel) browse(step int) {
	if len(m.history) == 0 {
		return
	}
	m.histPos = min(max(m.histPos+step, 0), len(m.history))
	if m.histPos == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[m.histPos])
	m.input.CursorEnd()
}

func (m *replModel) append(lines ...string) {
	m.lines = append(m.lines, lines...)
	if extra := len(m.lines) - maxTranscript; extra > 0 {
		m.lines = m.lines[extra:]
	}
}

func (m *replModel) refresh() {
	m.view.SetContent(strings.Join(m.lines, "\n"))
	m.view.GotoBottom()
}

func (m *replModel) View() string {
	var b strings.Builder
	b.WriteString(replTitleStyle.Render(truncate(m.title, m.width)))
	b.WriteString("\n")
	b.WriteString(m.view.View())
	b.WriteString("\n")
	if m.quit {
		return b.String()
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(replFooterStyle.Render("enter run · ↑/↓ history · pgup/pgdn scroll · esc quit"))
	return b.String()
}

// Transcript returns the lines printed so far, for tests and for dumping
// the session after the program exits.
func Transcript(model tea.Model) []string {
	if m, ok := model.(*replModel); ok {
		return append([]string(nil), m.lines...)
	}
	return nil
}
