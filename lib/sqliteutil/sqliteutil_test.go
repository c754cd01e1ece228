package sqliteutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	testCases := []struct {
		path   string
		remote bool
	}{
		{path: "courses_202510.db", remote: false},
		{path: "/tmp/out/courses.db", remote: false},
		{path: "libsql://catalog.turso.io", remote: true},
		{path: "http://127.0.0.1:8080", remote: true},
		{path: "https://catalog.turso.io", remote: true},
	}
	for _, test := range testCases {
		require.Equal(t, test.remote, IsRemote(test.path), test.path)
	}
}

func TestOpenDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "courses.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	require.Equal(t, "wal", mode)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
