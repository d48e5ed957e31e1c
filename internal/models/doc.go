// Package models defines domain entities and persistence interfaces for the Tabify identification service.
//
// The only persistent entity is [Lookup], a record of a successful song
// identification with its enrichment results. It implements the [Model]
// interface providing ID generation, timestamps, validation, and soft delete
// support. The [Repository] interface defines standard CRUD operations for
// database access; the concrete SQLite implementation lives in
// internal/repositories.
package models
