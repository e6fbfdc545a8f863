//go:build !sqlite

package storage

import "errors"

var errNoSQLite = errors.New("sqlite run store is not compiled in; build with -tags sqlite")

func newSQLiteStore(string) (Store, error) {
	return nil, errNoSQLite
}
