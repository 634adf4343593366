// Package sqlite provides the collection snapshot store backed by SQLite.
package sqlite
