// Package domain contains the core business entities of the application,
// independent of storage and transport concerns. Entities validate
// themselves; persistence and HTTP layers depend on this package, never
// the other way around.
package domain
