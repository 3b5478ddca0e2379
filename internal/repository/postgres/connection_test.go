package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNewTableNames(t *testing.T) {
	tests := []struct {
		prefix        string
		conversations string
		turns         string
	}{
		{"", "conversations", "turns"},
		{"dev_", "dev_conversations", "dev_turns"},
		{"test_", "test_conversations", "test_turns"},
	}

	for _, tt := range tests {
		tables := NewTableNames(tt.prefix)
		if tables.Conversations != tt.conversations {
			t.Errorf("prefix %q: Conversations = %q, want %q", tt.prefix, tables.Conversations, tt.conversations)
		}
		if tables.Turns != tt.turns {
			t.Errorf("prefix %q: Turns = %q, want %q", tt.prefix, tables.Turns, tt.turns)
		}
	}
}

func TestIsPgNoRowsError(t *testing.T) {
	if !IsPgNoRowsError(pgx.ErrNoRows) {
		t.Error("pgx.ErrNoRows not recognized")
	}
	if !IsPgNoRowsError(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)) {
		t.Error("wrapped pgx.ErrNoRows not recognized")
	}
	if IsPgNoRowsError(errors.New("other")) {
		t.Error("unrelated error misclassified as no-rows")
	}
}

func TestIsPgForeignKeyError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	if !IsPgForeignKeyError(fk) {
		t.Error("foreign key violation not recognized")
	}
	if !IsPgForeignKeyError(fmt.Errorf("wrapped: %w", fk)) {
		t.Error("wrapped foreign key violation not recognized")
	}
	if IsPgForeignKeyError(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation misclassified as foreign key")
	}
	if IsPgForeignKeyError(errors.New("other")) {
		t.Error("unrelated error misclassified")
	}
}
