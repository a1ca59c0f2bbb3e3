// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(sql, args)
	return called.Get(0).(pgconn.CommandTag), called.Error(1)
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	called := m.Called(sql, args)
	return called.Get(0).(pgx.Row)
}

func (m *mockQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	called := m.Called(sql, args)
	return called.Get(0).(pgx.Rows), called.Error(1)
}

// fakeRow scans data and expires_at columns.
type fakeRow struct {
	data      []byte
	expiresAt *time.Time
	err       error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.data
	*dest[1].(**time.Time) = r.expiresAt
	return nil
}

type fakeRecord struct {
	id        string
	data      []byte
	expiresAt *time.Time
}

// fakeRows scans id, data and expires_at columns.
type fakeRows struct {
	records []fakeRecord
	pos     int
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.records) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	rec := r.records[r.pos-1]
	*dest[0].(*string) = rec.id
	*dest[1].(*[]byte) = rec.data
	*dest[2].(**time.Time) = rec.expiresAt
	return nil
}
