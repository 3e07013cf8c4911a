// Package schema defines the stored entities: URLs, blobs, screenshots and
// HTTP archives.
//
// Every entity carries an ID plus creation and update timestamps. The
// update timestamp and ID together form the entity's fields.CursorValue,
// which is the key entities are listed by.
//
// JSON field names are camel case with the initialisms ID, URL and IP kept
// upper case. The HAR tree follows the HTTP Archive 1.2 format names.
package schema
