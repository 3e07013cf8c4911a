package schema

import (
	"encoding/json"
	"fmt"

	"github.com/kenbun-app/kenbundata/internal/fields"
)

// HARLog is the "log" object of an HTTP Archive 1.2 document.
type HARLog struct {
	Version string      `json:"version" validate:"required"`
	Creator HARCreator  `json:"creator"`
	Browser *HARBrowser `json:"browser,omitempty"`
	Pages   []HARPage   `json:"pages,omitempty" validate:"dive"`
	Entries []HAREntry  `json:"entries" validate:"dive"`
	Comment string      `json:"comment,omitempty"`
}

// HARCreator names the application that wrote the archive.
type HARCreator struct {
	Name    string `json:"name" validate:"required"`
	Version string `json:"version" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

// HARBrowser names the browser that made the requests.
type HARBrowser struct {
	Name    string `json:"name" validate:"required"`
	Version string `json:"version" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

// HARPage is one page load that groups entries.
type HARPage struct {
	StartedDateTime fields.Timestamp `json:"startedDateTime" validate:"required"`
	ID              string           `json:"id" validate:"required"`
	Title           string           `json:"title"`
	PageTimings     HARPageTimings   `json:"pageTimings"`
	Comment         string           `json:"comment,omitempty"`
}

// HARPageTimings are milliseconds since StartedDateTime. Nil means not
// available.
type HARPageTimings struct {
	OnContentLoad *float64 `json:"onContentLoad,omitempty"`
	OnLoad        *float64 `json:"onLoad,omitempty"`
	Comment       string   `json:"comment,omitempty"`
}

// HAREntry is one request/response exchange.
type HAREntry struct {
	Pageref         string           `json:"pageref,omitempty"`
	StartedDateTime fields.Timestamp `json:"startedDateTime" validate:"required"`
	Time            float64          `json:"time" validate:"gte=0"`
	Request         HARRequest       `json:"request"`
	Response        HARResponse      `json:"response"`
	Cache           HARCache         `json:"cache"`
	Timings         HARTimings       `json:"timings"`
	ServerIPAddress string           `json:"serverIPAddress,omitempty" validate:"omitempty,ip"`
	Connection      string           `json:"connection,omitempty"`
	Comment         string           `json:"comment,omitempty"`
}

// HARRequest describes the request that was sent.
type HARRequest struct {
	Method      string           `json:"method" validate:"required"`
	URL         string           `json:"url" validate:"required,http_url"`
	HTTPVersion string           `json:"httpVersion"`
	Cookies     []HARCookie      `json:"cookies" validate:"dive"`
	Headers     []HARHeader      `json:"headers" validate:"dive"`
	QueryString []HARQueryString `json:"queryString" validate:"dive"`
	PostData    *HARPostData     `json:"postData,omitempty"`
	HeadersSize int              `json:"headersSize"`
	BodySize    int              `json:"bodySize"`
	Comment     string           `json:"comment,omitempty"`
}

// HARResponse describes the response that was received.
type HARResponse struct {
	Status      int         `json:"status"`
	StatusText  string      `json:"statusText"`
	HTTPVersion string      `json:"httpVersion"`
	Cookies     []HARCookie `json:"cookies" validate:"dive"`
	Headers     []HARHeader `json:"headers" validate:"dive"`
	Content     HARContent  `json:"content"`
	RedirectURL string      `json:"redirectURL"`
	HeadersSize int         `json:"headersSize"`
	BodySize    int         `json:"bodySize"`
	Comment     string      `json:"comment,omitempty"`
}

// HARCookie is a cookie sent or set.
type HARCookie struct {
	Name     string            `json:"name" validate:"required"`
	Value    string            `json:"value"`
	Path     string            `json:"path,omitempty"`
	Domain   string            `json:"domain,omitempty"`
	Expires  *fields.Timestamp `json:"expires,omitempty"`
	HTTPOnly *bool             `json:"httpOnly,omitempty"`
	Secure   *bool             `json:"secure,omitempty"`
	Comment  string            `json:"comment,omitempty"`
}

// HARHeader is one HTTP header.
type HARHeader struct {
	Name    string `json:"name" validate:"required"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// HARQueryString is one query string parameter.
type HARQueryString struct {
	Name    string `json:"name" validate:"required"`
	Value   string `json:"value"`
	Comment string `json:"comment,omitempty"`
}

// HARPostData is the request body.
type HARPostData struct {
	MimeType fields.MimeType `json:"mimeType"`
	Params   []HARParam      `json:"params,omitempty" validate:"dive"`
	Text     string          `json:"text"`
	Comment  string          `json:"comment,omitempty"`
}

// HARParam is one posted form field or file.
type HARParam struct {
	Name        string `json:"name" validate:"required"`
	Value       string `json:"value,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

// HARContent is the response body.
type HARContent struct {
	Size        int             `json:"size"`
	Compression *int            `json:"compression,omitempty"`
	MimeType    fields.MimeType `json:"mimeType"`
	Text        string          `json:"text,omitempty"`
	Encoding    string          `json:"encoding,omitempty"`
	Comment     string          `json:"comment,omitempty"`
}

// HARCache holds cache state before and after the request.
type HARCache struct {
	BeforeRequest *HARCacheRequest `json:"beforeRequest,omitempty"`
	AfterRequest  *HARCacheRequest `json:"afterRequest,omitempty"`
	Comment       string           `json:"comment,omitempty"`
}

// HARCacheRequest is the state of one cache entry.
type HARCacheRequest struct {
	Expires    *fields.Timestamp `json:"expires,omitempty"`
	LastAccess fields.Timestamp  `json:"lastAccess"`
	ETag       string            `json:"eTag"`
	HitCount   int               `json:"hitCount" validate:"gte=0"`
	Comment    string            `json:"comment,omitempty"`
}

// HARTimings are milliseconds spent in each phase of a request. An optional
// phase that does not apply is either absent or -1.
type HARTimings struct {
	Blocked *float64 `json:"blocked,omitempty"`
	DNS     *float64 `json:"dns,omitempty"`
	Connect *float64 `json:"connect,omitempty"`
	Send    float64  `json:"send"`
	Wait    float64  `json:"wait"`
	Receive float64  `json:"receive"`
	SSL     *float64 `json:"ssl,omitempty"`
	Comment string   `json:"comment,omitempty"`
}

// ParseHAR decodes an archive document of the form {"log": {...}} into a
// new HAR entity. Vendor fields prefixed with '_' are dropped.
func ParseHAR(data []byte) (*HAR, error) {
	var doc struct {
		Log HARLog `json:"log"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode har: %w", err)
	}
	h := &HAR{ID: fields.NewID(), Log: doc.Log}
	if err := Validate(h); err != nil {
		return nil, err
	}
	return h, nil
}

// EntryCount returns the number of recorded requests.
func (h *HAR) EntryCount() int {
	return len(h.Log.Entries)
}
