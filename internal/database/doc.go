// Package database creates the pgx connection pool used by the
// payload journal.
package database
