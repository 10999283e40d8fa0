package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	qt "github.com/frankban/quicktest"

	"salescrm/internal/model"
)

type fakeConsole struct {
	executed []string
	result   *model.QueryResult
	tables   []string
}

func (f *fakeConsole) Execute(_ context.Context, statement string) *model.QueryResult {
	f.executed = append(f.executed, statement)
	return f.result
}

func (f *fakeConsole) ListTables(context.Context) ([]string, error) {
	return f.tables, nil
}

func (f *fakeConsole) DescribeTable(context.Context, string) (*model.TableDescription, error) {
	return nil, nil
}

func (f *fakeConsole) BrowseTable(context.Context, string) (*model.QueryResult, error) {
	return nil, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// drive feeds msg to m and then follows the console's own messages produced
// by the returned commands. Cursor blink commands are not followed.
func drive(m ConsoleModel, msg tea.Msg) ConsoleModel {
	next, cmd := m.Update(msg)
	m = next.(ConsoleModel)
	for cmd != nil {
		out := cmd()
		switch out.(type) {
		case confirmDecisionMsg, statementResultMsg, tablesLoadedMsg:
		default:
			return m
		}
		next, cmd = m.Update(out)
		m = next.(ConsoleModel)
	}
	return m
}

func newModel(console *fakeConsole, statement string) ConsoleModel {
	m := NewConsoleModel(context.Background(), console)
	m.editor.SetValue(statement)
	return m
}

func TestConsoleModel_ReadRunsImmediately(t *testing.T) {
	c := qt.New(t)
	console := &fakeConsole{result: &model.QueryResult{
		Success:  true,
		Kind:     "read",
		Columns:  []string{"name"},
		Rows:     []model.Row{{"name": "Laptop Pro"}},
		RowCount: 1,
	}}

	m := drive(newModel(console, "SELECT name FROM products"), key("ctrl+r"))

	c.Assert(console.executed, qt.DeepEquals, []string{"SELECT name FROM products"})
	c.Assert(m.mode, qt.Equals, ModeEdit)
	c.Assert(m.hasResults, qt.IsTrue)
	c.Assert(m.status, qt.Equals, "1 row(s)")
}

func TestConsoleModel_DestructiveStatementAsksFirst(t *testing.T) {
	c := qt.New(t)
	affected := int64(3)
	console := &fakeConsole{result: &model.QueryResult{Success: true, Kind: "write", RowsAffected: &affected}}

	m := drive(newModel(console, "DELETE FROM feedback"), key("ctrl+r"))

	c.Assert(m.mode, qt.Equals, ModeConfirm)
	c.Assert(console.executed, qt.HasLen, 0)
	c.Assert(m.confirmation.YesSelected, qt.IsFalse)

	m = drive(m, key("y"))

	c.Assert(console.executed, qt.DeepEquals, []string{"DELETE FROM feedback"})
	c.Assert(m.mode, qt.Equals, ModeEdit)
	c.Assert(m.status, qt.Equals, "3 row(s) affected")
}

func TestConsoleModel_EnterDefaultsToNo(t *testing.T) {
	c := qt.New(t)
	console := &fakeConsole{result: &model.QueryResult{Success: true}}

	m := drive(newModel(console, "DROP TABLE sales"), key("ctrl+r"))
	c.Assert(m.mode, qt.Equals, ModeConfirm)

	m = drive(m, key("enter"))

	c.Assert(console.executed, qt.HasLen, 0)
	c.Assert(m.mode, qt.Equals, ModeEdit)
	c.Assert(m.status, qt.Equals, "statement not executed")
	c.Assert(m.pending, qt.Equals, "")
}

func TestConsoleModel_FailureKeepsConsoleUsable(t *testing.T) {
	c := qt.New(t)
	console := &fakeConsole{result: &model.QueryResult{Success: false, Error: "no such table: nope"}}

	m := drive(newModel(console, "SELECT * FROM nope"), key("ctrl+r"))

	c.Assert(m.mode, qt.Equals, ModeEdit)
	c.Assert(m.hasResults, qt.IsFalse)
	c.Assert(m.status, qt.Equals, "error: no such table: nope")
}

func TestConsoleModel_EmptyEditor(t *testing.T) {
	c := qt.New(t)
	console := &fakeConsole{}

	m := drive(newModel(console, "  -- only a comment\n"), key("ctrl+r"))

	c.Assert(console.executed, qt.HasLen, 0)
	c.Assert(m.status, qt.Equals, "nothing to execute")
}

func TestConsoleModel_TablesLoaded(t *testing.T) {
	c := qt.New(t)
	m := NewConsoleModel(context.Background(), &fakeConsole{})

	next, _ := m.Update(tablesLoadedMsg{tables: []string{"products", "users"}})

	c.Assert(next.(ConsoleModel).status, qt.Equals, "tables: products, users")
}

func TestConfirmationDialog_Navigation(t *testing.T) {
	c := qt.New(t)
	d := NewConfirmationDialog("t", "m")
	confirmed := false
	d.OnConfirm = func() tea.Cmd {
		confirmed = true
		return nil
	}

	d.Update(key("h"))
	c.Assert(d.YesSelected, qt.IsTrue)
	d.Update(key("l"))
	c.Assert(d.YesSelected, qt.IsFalse)
	d.Update(key("tab"))
	c.Assert(d.YesSelected, qt.IsTrue)
	d.Update(key("enter"))
	c.Assert(confirmed, qt.IsTrue)
}
