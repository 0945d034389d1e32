// Package postgres provides PostgreSQL-specific implementations of the
// interfaces defined in the internal/store package, using the pgx driver
// through database/sql. It also embeds the goose SQL migrations that create
// the schema those stores rely on.
package postgres
