// Package store defines the persistence boundary of the application: the
// TaskStore interface, the TaskQuery specification that list requests compile
// to, sentinel errors shared by all implementations, and transaction helpers.
// Concrete implementations live under internal/platform.
package store
