package model

// Row is one result row keyed by column name.
type Row map[string]any

// RowSet is a materialized result set. Columns keeps the driver's column order.
type RowSet struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    []Row    `json:"rows" yaml:"rows"`
}

// ColumnInfo describes one column of a table as reported by the store.
type ColumnInfo struct {
	Position     int     `json:"position" yaml:"position"`
	Name         string  `json:"name" yaml:"name"`
	DeclaredType string  `json:"declared_type" yaml:"declared_type"`
	NotNull      bool    `json:"not_null" yaml:"not_null"`
	DefaultValue *string `json:"default_value" yaml:"default_value"`
	IsPrimaryKey bool    `json:"is_primary_key" yaml:"is_primary_key"`
}

// TableDescription is the table-browsing view of a single table.
type TableDescription struct {
	Name       string       `json:"name" yaml:"name"`
	Columns    []ColumnInfo `json:"columns" yaml:"columns"`
	SampleRows []Row        `json:"sample_rows" yaml:"sample_rows"`
	RowCount   int64        `json:"row_count" yaml:"row_count"`
}

// QueryResult is the outcome of a console statement. Failures are carried in
// Error rather than returned, so the console stays usable after a bad statement.
type QueryResult struct {
	Success      bool     `json:"success" yaml:"success"`
	Kind         string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Columns      []string `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows         []Row    `json:"rows,omitempty" yaml:"rows,omitempty"`
	RowCount     int      `json:"row_count" yaml:"row_count"`
	RowsAffected *int64   `json:"rows_affected,omitempty" yaml:"rows_affected,omitempty"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReturnedRows reports whether the result came from a row-returning statement.
func (r *QueryResult) ReturnedRows() bool {
	return r.Success && r.RowsAffected == nil
}
