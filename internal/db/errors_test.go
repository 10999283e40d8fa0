package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'bob'"}, want: true},
		{name: "wrapped mysql duplicate", err: fmt.Errorf("create user: %w", &mysql.MySQLError{Number: 1062}), want: true},
		{name: "mysql other error", err: &mysql.MySQLError{Number: 1452}, want: false},
		{name: "postgres unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "postgres fk violation", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "mysql missing parent row", err: &mysql.MySQLError{Number: 1452}, want: true},
		{name: "wrapped postgres fk violation", err: fmt.Errorf("create feedback: %w", &pgconn.PgError{Code: "23503"}), want: true},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062}, want: false},
		{name: "postgres unique violation", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "gorm foreign key violated", err: gorm.ErrForeignKeyViolated, want: true},
		{name: "plain error", err: errors.New("foreign key constraint fails"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsForeignKeyViolation(tt.err))
		})
	}
}
