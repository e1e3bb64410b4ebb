// Package postgres implements the store interfaces on top of PostgreSQL,
// accessed through database/sql with the pgx driver. Query composition
// (filtering, search, sorting, pagination) is delegated to the database: the
// TaskQuery specification compiles to a single parameterized statement.
package postgres
