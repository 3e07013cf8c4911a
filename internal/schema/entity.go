package schema

import (
	"github.com/kenbun-app/kenbundata/internal/fields"
)

// Kind names an entity collection.
type Kind string

const (
	KindURL        Kind = "url"
	KindBlob       Kind = "blob"
	KindScreenshot Kind = "screenshot"
	KindHAR        Kind = "har"
)

// Entity is implemented by every stored type.
type Entity interface {
	EntityKind() Kind
	EntityID() fields.ID

	// Touch records a write at now. CreatedAt is set only once.
	Touch(now fields.Timestamp)

	// CursorValue returns the listing key built from UpdatedAt and ID.
	CursorValue() (fields.CursorValue, error)
}

var (
	_ Entity = (*URL)(nil)
	_ Entity = (*Blob)(nil)
	_ Entity = (*Screenshot)(nil)
	_ Entity = (*HAR)(nil)
)

func touch(created, updated *fields.Timestamp, now fields.Timestamp) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// URL is a page address submitted for archiving.
type URL struct {
	ID        fields.ID        `json:"id" validate:"required"`
	URL       string           `json:"url" validate:"required,http_url"`
	CreatedAt fields.Timestamp `json:"createdAt,omitzero"`
	UpdatedAt fields.Timestamp `json:"updatedAt,omitzero"`
}

// NewURL returns a URL entity with a fresh ID.
func NewURL(rawURL string) *URL {
	return &URL{ID: fields.NewID(), URL: rawURL}
}

func (u *URL) EntityKind() Kind { return KindURL }
func (u *URL) EntityID() fields.ID { return u.ID }
func (u *URL) Touch(now fields.Timestamp) { touch(&u.CreatedAt, &u.UpdatedAt, now) }

func (u *URL) CursorValue() (fields.CursorValue, error) {
	return fields.NewCursorValue(u.UpdatedAt, u.ID)
}

// URLKey is a paging.KeyFunc for URL rows.
func URLKey(u URL) (fields.CursorValue, error) {
	return u.CursorValue()
}

// Blob is an opaque payload with a media type.
type Blob struct {
	ID        fields.ID        `json:"id" validate:"required"`
	Data      fields.Bytes     `json:"data"`
	MimeType  fields.MimeType  `json:"mimeType"`
	CreatedAt fields.Timestamp `json:"createdAt,omitzero"`
	UpdatedAt fields.Timestamp `json:"updatedAt,omitzero"`
}

// NewBlob returns a Blob entity with a fresh ID.
func NewBlob(data []byte, mimeType fields.MimeType) *Blob {
	return &Blob{ID: fields.NewID(), Data: fields.Bytes(data), MimeType: mimeType}
}

func (b *Blob) EntityKind() Kind { return KindBlob }
func (b *Blob) EntityID() fields.ID { return b.ID }
func (b *Blob) Touch(now fields.Timestamp) { touch(&b.CreatedAt, &b.UpdatedAt, now) }

func (b *Blob) CursorValue() (fields.CursorValue, error) {
	return fields.NewCursorValue(b.UpdatedAt, b.ID)
}

// Screenshot is a rendered page capture.
type Screenshot struct {
	ID           fields.ID           `json:"id" validate:"required"`
	EncodedImage fields.EncodedImage `json:"encodedImage" validate:"required"`
	CreatedAt    fields.Timestamp    `json:"createdAt,omitzero"`
	UpdatedAt    fields.Timestamp    `json:"updatedAt,omitzero"`
}

// NewScreenshot returns a Screenshot entity with a fresh ID.
func NewScreenshot(img fields.EncodedImage) *Screenshot {
	return &Screenshot{ID: fields.NewID(), EncodedImage: img}
}

func (s *Screenshot) EntityKind() Kind { return KindScreenshot }
func (s *Screenshot) EntityID() fields.ID { return s.ID }
func (s *Screenshot) Touch(now fields.Timestamp) { touch(&s.CreatedAt, &s.UpdatedAt, now) }

func (s *Screenshot) CursorValue() (fields.CursorValue, error) {
	return fields.NewCursorValue(s.UpdatedAt, s.ID)
}

// HAR is a recorded HTTP archive.
type HAR struct {
	ID        fields.ID        `json:"id" validate:"required"`
	Log       HARLog           `json:"log"`
	CreatedAt fields.Timestamp `json:"createdAt,omitzero"`
	UpdatedAt fields.Timestamp `json:"updatedAt,omitzero"`
}

func (h *HAR) EntityKind() Kind { return KindHAR }
func (h *HAR) EntityID() fields.ID { return h.ID }
func (h *HAR) Touch(now fields.Timestamp) { touch(&h.CreatedAt, &h.UpdatedAt, now) }

func (h *HAR) CursorValue() (fields.CursorValue, error) {
	return fields.NewCursorValue(h.UpdatedAt, h.ID)
}
