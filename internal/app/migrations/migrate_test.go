package migrations

import (
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "sql/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	source, err := iofs.New(migrationFiles, "sql")
	require.NoError(t, err)
	defer source.Close()

	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, identifier, err := source.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	assert.Equal(t, "create_taxi_tables", identifier)
}
