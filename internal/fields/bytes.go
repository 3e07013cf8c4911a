package fields

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// Bytes is an opaque binary payload. encoding/json writes it as standard
// padded base64.
type Bytes []byte

// BytesFromBase64 decodes standard padded base64.
func BytesFromBase64(s string) (Bytes, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode bytes: %w", err)
	}
	return Bytes(b), nil
}

// StdEncoded returns the standard padded base64 form.
func (b Bytes) StdEncoded() string {
	return base64.StdEncoding.EncodeToString(b)
}

// URLEncoded returns the padded base64url form.
func (b Bytes) URLEncoded() string {
	return base64.URLEncoding.EncodeToString(b)
}

// Hex returns the lowercase hex form.
func (b Bytes) Hex() string {
	return fmt.Sprintf("%x", []byte(b))
}

// EncodedImage is a PNG image carried as standard base64 text.
type EncodedImage struct {
	data string
}

// ParseEncodedImage validates that s is base64 of a PNG whose header decodes.
func ParseEncodedImage(s string) (EncodedImage, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return EncodedImage{}, newValidationError(CodeInvalidImage, s, err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return EncodedImage{}, newValidationError(CodeInvalidImage, s, err)
	}
	return EncodedImage{data: s}, nil
}

// EncodeImage serializes img as PNG.
func EncodeImage(img image.Image) (EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return EncodedImage{}, newValidationError(CodeInvalidImage, "", err)
	}
	return EncodedImage{data: base64.StdEncoding.EncodeToString(buf.Bytes())}, nil
}

// Image decodes the full image.
func (e EncodedImage) Image() (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(e.data)
	if err != nil {
		return nil, newValidationError(CodeInvalidImage, e.data, err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, newValidationError(CodeInvalidImage, e.data, err)
	}
	return img, nil
}

// Config decodes only the image header (dimensions and color model).
func (e EncodedImage) Config() (image.Config, error) {
	raw, err := base64.StdEncoding.DecodeString(e.data)
	if err != nil {
		return image.Config{}, newValidationError(CodeInvalidImage, e.data, err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return image.Config{}, newValidationError(CodeInvalidImage, e.data, err)
	}
	return cfg, nil
}

// IsEmpty reports whether no image is set.
func (e EncodedImage) IsEmpty() bool {
	return e.data == ""
}

// String returns the base64 text.
func (e EncodedImage) String() string {
	return e.data
}

// MarshalText implements encoding.TextMarshaler.
func (e EncodedImage) MarshalText() ([]byte, error) {
	return []byte(e.data), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *EncodedImage) UnmarshalText(text []byte) error {
	parsed, err := ParseEncodedImage(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
