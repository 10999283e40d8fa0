package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"salescrm/cmd/crmctl/output"
	"salescrm/internal/model"
	"salescrm/internal/service"
	"salescrm/internal/sqlclass"
)

// ConsoleMode represents the current mode of the console UI
type ConsoleMode int

const (
	ModeEdit ConsoleMode = iota
	ModeResults
	ModeConfirm
	ModeRunning
)

const (
	maxColumnWidth = 32
	maxTableHeight = 15
)

// ConsoleModel is the Bubbletea model for the interactive SQL console
type ConsoleModel struct {
	ctx          context.Context
	console      service.ConsoleService
	mode         ConsoleMode
	editor       textarea.Model
	results      table.Model
	hasResults   bool
	confirmation ConfirmationDialog
	pending      string
	status       string
	statusStyle  lipgloss.Style
	width        int
	height       int
}

// Messages
type confirmDecisionMsg struct {
	confirmed bool
}

type statementResultMsg struct {
	result *model.QueryResult
}

type tablesLoadedMsg struct {
	tables []string
	err    error
}

// NewConsoleModel creates a new console UI model
func NewConsoleModel(ctx context.Context, console service.ConsoleService) ConsoleModel {
	editor := textarea.New()
	editor.Placeholder = "SELECT * FROM products"
	editor.ShowLineNumbers = false
	editor.SetWidth(80)
	editor.SetHeight(5)
	editor.Focus()

	return ConsoleModel{
		ctx:         ctx,
		console:     console,
		mode:        ModeEdit,
		editor:      editor,
		statusStyle: mutedStyle,
		status:      "ready",
	}
}

// Init initializes the model
func (m ConsoleModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, loadTablesCmd(m.ctx, m.console))
}

// Commands
func loadTablesCmd(ctx context.Context, console service.ConsoleService) tea.Cmd {
	return func() tea.Msg {
		tables, err := console.ListTables(ctx)
		return tablesLoadedMsg{tables: tables, err: err}
	}
}

func executeStatementCmd(ctx context.Context, console service.ConsoleService, statement string) tea.Cmd {
	return func() tea.Msg {
		return statementResultMsg{result: console.Execute(ctx, statement)}
	}
}

func decisionCmd(confirmed bool) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return confirmDecisionMsg{confirmed: confirmed} }
	}
}

// Update handles messages
func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case tablesLoadedMsg:
		if msg.err != nil {
			m.setStatus(dangerStyle, "cannot list tables: "+msg.err.Error())
		} else {
			m.setStatus(mutedStyle, "tables: "+strings.Join(msg.tables, ", "))
		}
		return m, nil

	case confirmDecisionMsg:
		if !msg.confirmed {
			m.mode = ModeEdit
			m.pending = ""
			m.setStatus(mutedStyle, "statement not executed")
			return m, m.editor.Focus()
		}
		return m.run(m.pending)

	case statementResultMsg:
		m.pending = ""
		m.showResult(msg.result)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeConfirm:
			return m, m.confirmation.Update(msg)

		case ModeRunning:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case ModeResults:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "tab":
				m.mode = ModeEdit
				m.results.Blur()
				return m, m.editor.Focus()
			}
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd

		default:
			switch msg.String() {
			case "ctrl+c", "esc":
				return m, tea.Quit
			case "ctrl+r":
				return m.submit()
			case "ctrl+t":
				return m, loadTablesCmd(m.ctx, m.console)
			case "tab":
				if m.hasResults {
					m.mode = ModeResults
					m.editor.Blur()
					m.results.Focus()
					return m, nil
				}
			}
		}
	}

	if m.mode == ModeEdit {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit inspects the editor contents and either runs them or asks first.
func (m ConsoleModel) submit() (tea.Model, tea.Cmd) {
	statement := m.editor.Value()
	inspection := sqlclass.Inspect(statement)
	if len(inspection.Statements) == 0 {
		m.setStatus(warningStyle, "nothing to execute")
		return m, nil
	}

	m.pending = statement
	if !inspection.RequiresConfirmation {
		return m.run(statement)
	}

	m.confirmation = NewConfirmationDialog(
		"Confirm statement",
		"This statement may modify or delete data:\n  - "+strings.Join(inspection.Reasons, "\n  - ")+
			"\n\nExecute it?",
	)
	m.confirmation.OnConfirm = decisionCmd(true)
	m.confirmation.OnCancel = decisionCmd(false)
	m.mode = ModeConfirm
	m.editor.Blur()
	return m, nil
}

func (m ConsoleModel) run(statement string) (tea.Model, tea.Cmd) {
	m.mode = ModeRunning
	m.editor.Blur()
	m.setStatus(mutedStyle, "running…")
	return m, executeStatementCmd(m.ctx, m.console, statement)
}

func (m *ConsoleModel) showResult(res *model.QueryResult) {
	m.mode = ModeEdit
	m.editor.Focus()

	switch {
	case !res.Success:
		m.hasResults = false
		m.setStatus(dangerStyle, "error: "+res.Error)
	case res.RowsAffected != nil:
		m.hasResults = false
		m.setStatus(successStyle, fmt.Sprintf("%d row(s) affected", *res.RowsAffected))
	default:
		m.results = buildResultTable(res)
		m.hasResults = len(res.Columns) > 0
		m.setStatus(successStyle, fmt.Sprintf("%d row(s)", res.RowCount))
	}
}

func (m *ConsoleModel) setStatus(style lipgloss.Style, text string) {
	m.statusStyle = style
	m.status = text
}

func buildResultTable(res *model.QueryResult) table.Model {
	widths := make([]int, len(res.Columns))
	for i, col := range res.Columns {
		widths[i] = lipgloss.Width(col)
	}
	rows := make([]table.Row, 0, len(res.Rows))
	for _, row := range res.Rows {
		cells := output.RowCells(res.Columns, row)
		for i, cell := range cells {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
		rows = append(rows, table.Row(cells))
	}

	columns := make([]table.Column, len(res.Columns))
	for i, col := range res.Columns {
		columns[i] = table.Column{Title: col, Width: min(widths[i], maxColumnWidth)}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(min(len(rows)+1, maxTableHeight)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(colorText).
		Background(colorPrimary)
	t.SetStyles(styles)
	return t
}

// View renders the UI
func (m ConsoleModel) View() string {
	if m.mode == ModeConfirm {
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			m.confirmation.View(),
		)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Sales CRM SQL console"))
	b.WriteString("\n")
	b.WriteString(editorStyle.Render(m.editor.View()))
	b.WriteString("\n")
	b.WriteString(m.statusStyle.Render(m.status))
	b.WriteString("\n")

	if m.hasResults {
		b.WriteString("\n")
		b.WriteString(m.results.View())
		b.WriteString("\n")
	}

	help := []string{FormatKey("ctrl+r", "execute"), FormatKey("ctrl+t", "tables")}
	if m.hasResults {
		help = append(help, FormatKey("tab", "switch focus"))
	}
	if m.mode == ModeResults {
		help = append(help, FormatKey("↑/↓", "scroll"), FormatKey("q", "quit"))
	} else {
		help = append(help, FormatKey("esc", "quit"))
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return b.String()
}

// RunConsoleUI starts the interactive console
func RunConsoleUI(ctx context.Context, console service.ConsoleService) error {
	p := tea.NewProgram(NewConsoleModel(ctx, console), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
