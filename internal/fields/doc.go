// Package fields provides the scalar value types shared by every kenbun entity.
//
// All types are immutable wrapper structs. The only way to obtain a value is
// through the validating constructors (NewID, ParseID, ParseTimestamp,
// ParseMimeType, NewCursorValue, ParseCursor, ...); the zero value of each type
// is usable but never produced by parsing user input.
//
// Canonical string forms:
//   - ID: 22 characters of unpadded base64url over the 16 UUID bytes
//   - Timestamp: signed microseconds since the Unix epoch (UTC)
//   - CursorValue: "<13-digit millis>|<ID>", sortable as a plain string
//   - Cursor: padded base64url of "<direction>|<CursorValue>"
//
// This package imports nothing internal. Storage backends and the pagination
// algorithm build on it.
package fields
