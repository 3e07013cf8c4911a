// Package storage defines the backend-neutral persistence interface for
// kenbun entities.
//
// A Storage is opened from a Config whose Kind selects the backend (see
// package storage/factory). Every backend offers the same operations:
// get and store for each entity type, and keyset-paginated listing of URLs
// newest first.
//
// Store operations create or overwrite the entity with the same ID. They
// validate it, stamp CreatedAt on first write and UpdatedAt on every write
// from the configured Clock, and leave the stamped values on the caller's
// struct.
package storage
