// Package output renders crmctl results as styled tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"salescrm/internal/model"
)

// Supported formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// NullText is how a NULL cell is shown in table output.
const NullText = "NULL"

var (
	// Color styles for terminal output
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// ValidateFormat reports an unknown output format.
func ValidateFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// Success formats a success line.
func Success(format string, args ...interface{}) string {
	return successStyle.Render("✓ ") + fmt.Sprintf(format, args...)
}

// Warning formats a warning line.
func Warning(format string, args ...interface{}) string {
	return warningStyle.Render("⚠ ") + fmt.Sprintf(format, args...)
}

// FormatError formats an error for stderr.
func FormatError(err error) string {
	return errorStyle.Render("✗ ") + err.Error()
}

// Muted formats secondary text.
func Muted(format string, args ...interface{}) string {
	return mutedStyle.Render(fmt.Sprintf(format, args...))
}

// Structured writes v as JSON or YAML.
func Structured(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

// Grid renders headers and rows as a bordered table.
func Grid(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// Cell renders one result value as text.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return NullText
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.DateTime)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// RowCells renders row in column order.
func RowCells(columns []string, row model.Row) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = Cell(row[col])
	}
	return cells
}

// QueryResult writes the outcome of a console statement.
func QueryResult(w io.Writer, format string, res *model.QueryResult) error {
	if format != FormatTable {
		return Structured(w, format, res)
	}
	if !res.Success {
		_, err := fmt.Fprintln(w, FormatError(fmt.Errorf("%s", res.Error)))
		return err
	}
	if res.RowsAffected != nil {
		_, err := fmt.Fprintln(w, Success("%d row(s) affected", *res.RowsAffected))
		return err
	}
	if len(res.Columns) == 0 {
		_, err := fmt.Fprintln(w, Muted("statement returned no columns"))
		return err
	}

	rows := make([][]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		rows = append(rows, RowCells(res.Columns, row))
	}
	if _, err := fmt.Fprintln(w, Grid(res.Columns, rows)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Muted("%d row(s)", res.RowCount))
	return err
}

// Tables writes a table listing.
func Tables(w io.Writer, format string, tables []string) error {
	if format != FormatTable {
		return Structured(w, format, map[string][]string{"tables": tables})
	}
	rows := make([][]string, 0, len(tables))
	for _, name := range tables {
		rows = append(rows, []string{name})
	}
	_, err := fmt.Fprintln(w, Grid([]string{"table"}, rows))
	return err
}

// TableDescription writes columns, sample rows and the row count of a table.
func TableDescription(w io.Writer, format string, desc *model.TableDescription) error {
	if format != FormatTable {
		return Structured(w, format, desc)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(desc.Name))
	b.WriteString("\n")

	colRows := make([][]string, 0, len(desc.Columns))
	names := make([]string, 0, len(desc.Columns))
	for _, col := range desc.Columns {
		def := NullText
		if col.DefaultValue != nil {
			def = *col.DefaultValue
		}
		colRows = append(colRows, []string{
			strconv.Itoa(col.Position),
			col.Name,
			col.DeclaredType,
			yesNo(col.NotNull),
			def,
			yesNo(col.IsPrimaryKey),
		})
		names = append(names, col.Name)
	}
	b.WriteString(Grid([]string{"#", "name", "type", "not null", "default", "pk"}, colRows))
	b.WriteString("\n")

	if len(desc.SampleRows) > 0 {
		sample := make([][]string, 0, len(desc.SampleRows))
		for _, row := range desc.SampleRows {
			sample = append(sample, RowCells(names, row))
		}
		b.WriteString(Grid(names, sample))
		b.WriteString("\n")
	}
	b.WriteString(Muted("%d row(s) in total", desc.RowCount))

	_, err := fmt.Fprintln(w, b.String())
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
