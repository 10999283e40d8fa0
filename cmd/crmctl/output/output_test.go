package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"gopkg.in/yaml.v3"

	"salescrm/internal/model"
)

func TestCell(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, NullText},
		{"string", "Laptop Pro", "Laptop Pro"},
		{"bytes", []byte("Furniture"), "Furniture"},
		{"int", int64(42), "42"},
		{"float", 1299.99, "1299.99"},
		{"bool", true, "true"},
		{"time", time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC), "2025-03-15 09:30:00"},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(Cell(tt.in), qt.Equals, tt.want)
		})
	}
}

func TestRowCells_KeepsColumnOrder(t *testing.T) {
	c := qt.New(t)
	row := model.Row{"price": 9.5, "name": "Desk Organizer", "category": nil}

	c.Assert(RowCells([]string{"name", "category", "price"}, row), qt.DeepEquals,
		[]string{"Desk Organizer", NullText, "9.5"})
}

func TestValidateFormat(t *testing.T) {
	c := qt.New(t)
	c.Assert(ValidateFormat(FormatTable), qt.IsNil)
	c.Assert(ValidateFormat(FormatJSON), qt.IsNil)
	c.Assert(ValidateFormat(FormatYAML), qt.IsNil)
	c.Assert(ValidateFormat("xml"), qt.ErrorMatches, `unknown output format "xml".*`)
}

func TestQueryResult(t *testing.T) {
	c := qt.New(t)
	rows := &model.QueryResult{
		Success:  true,
		Kind:     "read",
		Columns:  []string{"name", "price"},
		Rows:     []model.Row{{"name": "Office Chair", "price": "249.99"}},
		RowCount: 1,
	}

	c.Run("table", func(c *qt.C) {
		var buf bytes.Buffer
		c.Assert(QueryResult(&buf, FormatTable, rows), qt.IsNil)
		c.Assert(buf.String(), qt.Contains, "Office Chair")
		c.Assert(buf.String(), qt.Contains, "249.99")
		c.Assert(buf.String(), qt.Contains, "1 row(s)")
	})

	c.Run("json", func(c *qt.C) {
		var buf bytes.Buffer
		c.Assert(QueryResult(&buf, FormatJSON, rows), qt.IsNil)

		var got map[string]any
		c.Assert(json.Unmarshal(buf.Bytes(), &got), qt.IsNil)
		c.Assert(got["success"], qt.Equals, true)
		c.Assert(got["row_count"], qt.Equals, float64(1))
		c.Assert(got["columns"], qt.DeepEquals, []any{"name", "price"})
	})

	c.Run("yaml", func(c *qt.C) {
		var buf bytes.Buffer
		c.Assert(QueryResult(&buf, FormatYAML, rows), qt.IsNil)

		var got model.QueryResult
		c.Assert(yaml.Unmarshal(buf.Bytes(), &got), qt.IsNil)
		c.Assert(got.Kind, qt.Equals, "read")
		c.Assert(got.Columns, qt.DeepEquals, rows.Columns)
		c.Assert(got.Rows[0]["name"], qt.Equals, "Office Chair")
	})

	c.Run("write", func(c *qt.C) {
		affected := int64(4)
		var buf bytes.Buffer
		c.Assert(QueryResult(&buf, FormatTable, &model.QueryResult{Success: true, RowsAffected: &affected}), qt.IsNil)
		c.Assert(buf.String(), qt.Contains, "4 row(s) affected")
	})

	c.Run("failure", func(c *qt.C) {
		var buf bytes.Buffer
		c.Assert(QueryResult(&buf, FormatTable, &model.QueryResult{Error: `relation "nope" does not exist`}), qt.IsNil)
		c.Assert(buf.String(), qt.Contains, `relation "nope" does not exist`)
	})
}

func TestTableDescription(t *testing.T) {
	c := qt.New(t)
	def := "0"
	desc := &model.TableDescription{
		Name: "products",
		Columns: []model.ColumnInfo{
			{Position: 0, Name: "id", DeclaredType: "bigint", NotNull: true, IsPrimaryKey: true},
			{Position: 1, Name: "stock_quantity", DeclaredType: "bigint", NotNull: true, DefaultValue: &def},
		},
		SampleRows: []model.Row{{"id": int64(1), "stock_quantity": int64(50)}},
		RowCount:   10,
	}

	var buf bytes.Buffer
	c.Assert(TableDescription(&buf, FormatTable, desc), qt.IsNil)
	out := buf.String()
	c.Assert(out, qt.Contains, "products")
	c.Assert(out, qt.Contains, "stock_quantity")
	c.Assert(out, qt.Contains, "10 row(s) in total")

	buf.Reset()
	c.Assert(TableDescription(&buf, FormatJSON, desc), qt.IsNil)
	c.Assert(buf.String(), qt.Contains, `"declared_type": "bigint"`)
}

func TestTables_Structured(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(Tables(&buf, FormatYAML, []string{"products", "users"}), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "tables:\n  - products\n  - users\n")
}
