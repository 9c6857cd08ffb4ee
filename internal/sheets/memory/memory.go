// Package memory is an in-process LedgerWriter, used when no spreadsheet is
// configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pennywise/internal/core"
	"pennywise/internal/sheets"
)

var _ sheets.LedgerWriter = (*Store)(nil)

type Store struct {
	mu   sync.Mutex
	loc  *time.Location
	rows [][]any
}

func New(loc *time.Location) *Store {
	return &Store{loc: loc}
}

// AppendExpense stores the row and returns a synthetic row reference.
func (s *Store) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	return s.append(sheets.ExpenseRow(e, s.loc)), nil
}

func (s *Store) AppendSaving(_ context.Context, sv core.Saving) (string, error) {
	if err := sv.Validate(); err != nil {
		return "", err
	}
	return s.append(sheets.SavingRow(sv, s.loc)), nil
}

func (s *Store) append(row []any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows))
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	copy(out, s.rows)
	return out
}
