package pgsql

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMigrate struct {
	upErr      error
	downErr    error
	versionVal uint
	versionErr error
	closed     bool
}

func (m *mockMigrate) Up() error   { return m.upErr }
func (m *mockMigrate) Down() error { return m.downErr }
func (m *mockMigrate) Version() (uint, bool, error) {
	return m.versionVal, false, m.versionErr
}
func (m *mockMigrate) Close() (error, error) {
	m.closed = true
	return nil, nil
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", MigrateURL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h/db", MigrateURL("postgresql://u:p@h/db"))
	assert.Equal(t, "pgx5://h/db", MigrateURL("pgx5://h/db"))
}

func TestMigrator_NoChangeIsNotError(t *testing.T) {
	m := &Migrator{m: &mockMigrate{upErr: migrate.ErrNoChange, downErr: migrate.ErrNoChange}}

	assert.NoError(t, m.Up())
	assert.NoError(t, m.Down())
}

func TestMigrator_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	m := &Migrator{m: &mockMigrate{upErr: boom, downErr: boom, versionErr: boom}}

	assert.ErrorIs(t, m.Up(), boom)
	assert.ErrorIs(t, m.Down(), boom)
	_, _, err := m.Version()
	assert.ErrorIs(t, err, boom)
}

func TestMigrator_Version(t *testing.T) {
	v, dirty, err := (&Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}).Version()
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, dirty)

	v, _, err = (&Migrator{m: &mockMigrate{versionVal: 3}}).Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), v)
}

func TestMigrator_Close(t *testing.T) {
	mm := &mockMigrate{}
	require.NoError(t, (&Migrator{m: mm}).Close())
	assert.True(t, mm.closed)
}

func TestNewMigrator_Errors(t *testing.T) {
	_, err := NewMigrator("", fstest.MapFS{}, "migrations")
	assert.ErrorIs(t, err, ErrURLRequired)

	_, err = NewMigrator("postgres://localhost/db", fstest.MapFS{}, "missing")
	assert.Error(t, err)
}
