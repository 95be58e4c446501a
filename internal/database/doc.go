// Package database implements PostgreSQL-backed persistence for articles and
// sentiment records, including connection setup and schema migrations.
package database
