// ABOUTME: Path-addressed persistence for metadata files
// ABOUTME: Drivers for the filesystem, BadgerDB and SQLite share one interface
package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverFS     = "fs"
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

var (
	ErrNotExist      = errors.New("path does not exist")
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store reads and writes whole files addressed by slash-separated paths.
// Directories exist implicitly once a file is written below them; EnsureDir
// records an empty one.
type Store interface {
	Read(ctx context.Context, p string) ([]byte, error)
	Write(ctx context.Context, p string, data []byte) error
	Exists(ctx context.Context, p string) (bool, error)
	// List returns the names of the files directly inside dir, sorted.
	List(ctx context.Context, dir string) ([]string, error)
	EnsureDir(ctx context.Context, dir string) error
	Close() error
}

// Open returns a store for the driver. base is the filesystem directory the
// fs driver resolves paths against; dsn locates the badger directory or the
// sqlite database file.
func Open(driver, base, dsn string) (Store, error) {
	switch driver {
	case "", DriverFS:
		return NewFileStore(base), nil
	case DriverBadger:
		return OpenBadgerStore(dsn)
	case DriverSQLite:
		return OpenSQLStore(dsn)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverFS, DriverBadger, DriverSQLite}
}

// clean normalises a path so every driver keys files the same way.
func clean(p string) string {
	c := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if c == "." {
		return ""
	}
	return c
}

// split returns the directory and base name of a cleaned path.
func split(p string) (string, string) {
	dir, name := path.Split(clean(p))
	return strings.TrimSuffix(dir, "/"), name
}
