// Package paging implements bidirectional keyset pagination over any store
// that keeps its rows ordered by fields.CursorValue.
//
// A page is always returned newest first. Paginate issues one bounded scan
// and two existence-only probes per call, so the cost of detecting whether
// older or newer rows remain does not depend on the page size.
//
// # Traversal
//
//	page, err := paging.Paginate(ctx, src, key, 20, nil)
//	for err == nil && page.Next != nil {
//	    page, err = paging.Paginate(ctx, src, key, 20, page.Next)
//	}
//
// Following Next walks toward older rows and following Prev walks back toward
// newer ones. Cursors carry no server-side state; a cursor whose value no
// longer matches any row still pages from that boundary.
package paging
