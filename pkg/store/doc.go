// Package store defines the storage interfaces for recorded matrix
// runs. Implementations live in subpackages; see the gorm subpackage
// for the PostgreSQL-backed store.
package store
