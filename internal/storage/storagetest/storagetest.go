// Package storagetest is a conformance suite every storage backend runs from
// its own tests.
package storagetest

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/paging"
	"github.com/kenbun-app/kenbundata/internal/schema"
	"github.com/kenbun-app/kenbundata/internal/storage"
	"github.com/kenbun-app/kenbundata/internal/testutil"
)

// OpenFunc returns a fresh, empty backend configured with opts. The suite
// closes it.
type OpenFunc func(t *testing.T, opts ...storage.Option) storage.Storage

const samplePNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAACCAAAAAC86un7AAAADElEQVR4nGP4z8QAAAMFAQLUtn8MAAAAAElFTkSuQmCC"

// Run executes the suite.
func Run(t *testing.T, open OpenFunc) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock)
	}{
		{"URLRoundTrip", testURLRoundTrip},
		{"URLOverwrite", testURLOverwrite},
		{"NotFound", testNotFound},
		{"RejectsInvalid", testRejectsInvalid},
		{"BlobRoundTrip", testBlobRoundTrip},
		{"ScreenshotRoundTrip", testScreenshotRoundTrip},
		{"HARRoundTrip", testHARRoundTrip},
		{"ListEmpty", testListEmpty},
		{"ListScenario", testListScenario},
		{"ListTraversal", testListTraversal},
		{"ListAfterOverwrite", testListAfterOverwrite},
		{"ListInvalidLimit", testListInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := testutil.NewDeterministicClock()
			s := open(t, storage.WithClock(clock))
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s, clock)
		})
	}
}

func testURLRoundTrip(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	u := schema.NewURL("https://kenbun.app/articles?id=1")

	require.NoError(t, s.StoreURL(ctx, u))
	assert.Equal(t, testutil.DefaultEpoch, u.CreatedAt)
	assert.Equal(t, testutil.DefaultEpoch, u.UpdatedAt)

	got, err := s.GetURL(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func testURLOverwrite(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	u := schema.NewURL("https://kenbun.app/a")
	require.NoError(t, s.StoreURL(ctx, u))
	created := u.CreatedAt

	u.URL = "https://kenbun.app/b"
	require.NoError(t, s.StoreURL(ctx, u))
	assert.Equal(t, created, u.CreatedAt)
	assert.True(t, created.Before(u.UpdatedAt))

	got, err := s.GetURL(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://kenbun.app/b", got.URL)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, u.UpdatedAt, got.UpdatedAt)
}

func testNotFound(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	id := fields.NewID()

	_, err := s.GetURL(ctx, id)
	assert.True(t, storage.IsNotFound(err), "got %v", err)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetBlob(ctx, id)
	assert.True(t, storage.IsNotFound(err), "got %v", err)

	_, err = s.GetScreenshot(ctx, id)
	assert.True(t, storage.IsNotFound(err), "got %v", err)

	_, err = s.GetHAR(ctx, id)
	assert.True(t, storage.IsNotFound(err), "got %v", err)
}

func testRejectsInvalid(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	u := schema.NewURL("not a url")

	err := s.StoreURL(ctx, u)
	assert.ErrorIs(t, err, schema.ErrInvalidEntity)

	_, err = s.GetURL(ctx, u.ID)
	assert.True(t, storage.IsNotFound(err), "got %v", err)
}

func testBlobRoundTrip(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()

	for name, data := range map[string][]byte{
		"text":   []byte("hello world"),
		"binary": {0x00, 0xff, 0x10, 0x80},
		"large":  bytes.Repeat([]byte("kenbun"), 100_000),
	} {
		t.Run(name, func(t *testing.T) {
			b := schema.NewBlob(data, fields.MustParseMimeType("application/octet-stream"))
			require.NoError(t, s.StoreBlob(ctx, b))

			got, err := s.GetBlob(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, b.ID, got.ID)
			assert.Equal(t, fields.Bytes(data), got.Data)
			assert.Equal(t, b.MimeType, got.MimeType)
			assert.Equal(t, b.CreatedAt, got.CreatedAt)
		})
	}
}

func testScreenshotRoundTrip(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	img, err := fields.ParseEncodedImage(samplePNG)
	require.NoError(t, err)

	sc := schema.NewScreenshot(img)
	require.NoError(t, s.StoreScreenshot(ctx, sc))

	got, err := s.GetScreenshot(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, sc, got)
}

func testHARRoundTrip(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	h, err := schema.ParseHAR([]byte(`{"log": {
		"version": "1.2",
		"creator": {"name": "WebInspector", "version": "537.36"},
		"entries": [{
			"startedDateTime": "2023-03-19T01:35:06.638Z",
			"time": 3,
			"request": {"method": "GET", "url": "https://developer.mozilla.org/manifest.json",
				"httpVersion": "http/2.0", "cookies": [], "headers": [], "queryString": [],
				"headersSize": -1, "bodySize": 0},
			"response": {"status": 200, "statusText": "", "httpVersion": "http/2.0",
				"cookies": [], "headers": [{"name": "age", "value": "15336"}],
				"content": {"size": 381, "mimeType": "application/json", "text": "{}"},
				"redirectURL": "", "headersSize": -1, "bodySize": 0},
			"cache": {},
			"timings": {"blocked": 0, "dns": -1, "connect": -1, "send": 0, "wait": 2, "receive": 1, "ssl": -1},
			"serverIPAddress": "0.0.0.0"
		}]
	}}`))
	require.NoError(t, err)

	require.NoError(t, s.StoreHAR(ctx, h))

	got, err := s.GetHAR(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, 1, got.EntryCount())
}

func testListEmpty(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	page, err := s.ListURLs(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Prev)
}

// storeURLs writes n URLs with the IDs 1..n, oldest first.
func storeURLs(t *testing.T, s storage.Storage, n int) []*schema.URL {
	t.Helper()
	seq := testutil.NewIDSequence()
	urls := make([]*schema.URL, 0, n)
	for i := 0; i < n; i++ {
		u := &schema.URL{ID: seq.Next(), URL: "https://kenbun.app/" + string(rune('a'+i%26))}
		require.NoError(t, s.StoreURL(context.Background(), u))
		urls = append(urls, u)
	}
	return urls
}

func ids(urls []schema.URL) []fields.ID {
	out := make([]fields.ID, len(urls))
	for i, u := range urls {
		out[i] = u.ID
	}
	return out
}

func testListScenario(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	stored := storeURLs(t, s, 3)

	first, err := s.ListURLs(ctx, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []fields.ID{stored[2].ID, stored[1].ID}, ids(first.Items))
	assert.Nil(t, first.Prev)
	require.NotNil(t, first.Next)

	wantNext, err := stored[1].CursorValue()
	require.NoError(t, err)
	assert.Equal(t, wantNext, first.Next.Value())
	assert.True(t, first.Next.IsNext())

	second, err := s.ListURLs(ctx, 2, first.Next)
	require.NoError(t, err)
	assert.Equal(t, []fields.ID{stored[0].ID}, ids(second.Items))
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Prev)

	back, err := s.ListURLs(ctx, 2, second.Prev)
	require.NoError(t, err)
	assert.Equal(t, first.Items, back.Items)
	assert.Nil(t, back.Prev)
}

func testListTraversal(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	stored := storeURLs(t, s, 10)

	var seen []fields.ID
	page, err := s.ListURLs(ctx, 3, nil)
	require.NoError(t, err)
	for {
		seen = append(seen, ids(page.Items)...)
		if page.Next == nil {
			break
		}
		page, err = s.ListURLs(ctx, 3, page.Next)
		require.NoError(t, err)
	}

	want := make([]fields.ID, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		want = append(want, stored[i].ID)
	}
	assert.Equal(t, want, seen)

	all, err := s.ListURLs(ctx, paging.MaxLimit, nil)
	require.NoError(t, err)
	assert.Len(t, all.Items, 10)
	assert.Nil(t, all.Next)
	assert.Nil(t, all.Prev)
}

func testListAfterOverwrite(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	ctx := context.Background()
	stored := storeURLs(t, s, 3)

	require.NoError(t, s.StoreURL(ctx, stored[0]))

	page, err := s.ListURLs(ctx, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, []fields.ID{stored[0].ID, stored[2].ID, stored[1].ID}, ids(page.Items))
}

func testListInvalidLimit(t *testing.T, s storage.Storage, clock *testutil.DeterministicClock) {
	_, err := s.ListURLs(context.Background(), 0, nil)
	assert.ErrorIs(t, err, paging.ErrInvalidArgument)
}
