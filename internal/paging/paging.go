package paging

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/kenbun-app/kenbundata/internal/fields"
)

// ErrInvalidArgument is returned for a non-positive limit or an unusable
// cursor.
var ErrInvalidArgument = errors.New("invalid argument")

// Order is the scan direction over the cursor value index.
type Order int

const (
	// Descending scans from the newest row.
	Descending Order = iota

	// Ascending scans from the oldest row.
	Ascending
)

// String returns the SQL keyword for the order.
func (o Order) String() string {
	if o == Ascending {
		return "ASC"
	}
	return "DESC"
}

// Operator is a strict comparison against a cursor value.
type Operator int

const (
	// LessThan keeps rows strictly older than the bound.
	LessThan Operator = iota

	// GreaterThan keeps rows strictly newer than the bound.
	GreaterThan
)

// String returns the SQL comparison operator.
func (op Operator) String() string {
	if op == GreaterThan {
		return ">"
	}
	return "<"
}

// Bound restricts a scan or probe to one side of a cursor value.
type Bound struct {
	Op    Operator
	Value fields.CursorValue
}

// Admits reports whether v lies on the kept side of the bound.
func (b Bound) Admits(v fields.CursorValue) bool {
	c := v.Compare(b.Value)
	if b.Op == GreaterThan {
		return c > 0
	}
	return c < 0
}

// Source is the ordered store a pager reads from.
//
// Scan returns at most limit rows in the given order, restricted by bound
// when it is non-nil. Exists reports whether any row satisfies bound and
// must not materialize rows. Both must observe the same ordering as
// fields.CursorValue.Compare.
type Source[T any] interface {
	Scan(ctx context.Context, order Order, bound *Bound, limit int) ([]T, error)
	Exists(ctx context.Context, bound Bound) (bool, error)
}

// KeyFunc extracts the sort key of a row.
type KeyFunc[T any] func(T) (fields.CursorValue, error)

// Page is one window of rows, newest first.
type Page[T any] struct {
	Items []T            `json:"items"`
	Next  *fields.Cursor `json:"next,omitempty"`
	Prev  *fields.Cursor `json:"prev,omitempty"`
}

// Paginate returns the page of at most limit rows selected by cursor.
//
// A nil cursor selects the newest rows. A Next cursor selects rows strictly
// older than its value and a Prev cursor rows strictly newer. Errors from
// src are wrapped and returned as is; nothing is retried.
func Paginate[T any](ctx context.Context, src Source[T], key KeyFunc[T], limit int, cursor *fields.Cursor) (*Page[T], error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}

	order := Descending
	var bound *Bound
	if cursor != nil {
		switch cursor.Direction() {
		case fields.Next:
			bound = &Bound{Op: LessThan, Value: cursor.Value()}
		case fields.Prev:
			order = Ascending
			bound = &Bound{Op: GreaterThan, Value: cursor.Value()}
		default:
			return nil, fmt.Errorf("%w: cursor has no direction", ErrInvalidArgument)
		}
	}

	items, err := src.Scan(ctx, order, bound, limit)
	if err != nil {
		return nil, fmt.Errorf("scan page: %w", err)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	if order == Ascending {
		slices.Reverse(items)
	}

	page := &Page[T]{Items: items}
	if page.Items == nil {
		page.Items = []T{}
	}
	if len(items) == 0 {
		return page, nil
	}

	first, err := key(items[0])
	if err != nil {
		return nil, fmt.Errorf("key of first row: %w", err)
	}
	last, err := key(items[len(items)-1])
	if err != nil {
		return nil, fmt.Errorf("key of last row: %w", err)
	}

	var hasOlder, hasNewer bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hasOlder, err = src.Exists(gctx, Bound{Op: LessThan, Value: last})
		if err != nil {
			return fmt.Errorf("probe older rows: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		hasNewer, err = src.Exists(gctx, Bound{Op: GreaterThan, Value: first})
		if err != nil {
			return fmt.Errorf("probe newer rows: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if hasOlder {
		c := fields.EncodeCursor(last, fields.Next)
		page.Next = &c
	}
	if hasNewer {
		c := fields.EncodeCursor(first, fields.Prev)
		page.Prev = &c
	}
	return page, nil
}
