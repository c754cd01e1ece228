package sqliteutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var remoteSchemes = []string{"libsql://", "http://", "https://", "wss://", "ws://"}

// IsRemote reports whether path is a libsql server url rather than a local file.
func IsRemote(path string) bool {
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(path, scheme) {
			return true
		}
	}
	return false
}

// OpenDB opens a libsql url with the libsql client, anything else is treated as a local
// sqlite file and created (along with its directory) when it does not exist yet.
func OpenDB(path string) (*sql.DB, error) {
	if IsRemote(path) {
		return sql.Open("libsql", path)
	}

	dir := filepath.Dir(path)
	if dir != "" {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
