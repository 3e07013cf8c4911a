package paging

import (
	"context"
	"fmt"
	"sort"

	"github.com/kenbun-app/kenbundata/internal/fields"
)

type keyedRow[T any] struct {
	key fields.CursorValue
	row T
}

// SliceSource is an in-memory Source over a snapshot of rows.
type SliceSource[T any] struct {
	rows []keyedRow[T]
}

// NewSliceSource sorts rows by key. Rows with equal keys keep their input
// order.
func NewSliceSource[T any](rows []T, key KeyFunc[T]) (*SliceSource[T], error) {
	keyed := make([]keyedRow[T], 0, len(rows))
	for i, r := range rows {
		k, err := key(r)
		if err != nil {
			return nil, fmt.Errorf("key of row %d: %w", i, err)
		}
		keyed = append(keyed, keyedRow[T]{key: k, row: r})
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].key.Compare(keyed[j].key) < 0
	})
	return &SliceSource[T]{rows: keyed}, nil
}

// Len returns the number of rows.
func (s *SliceSource[T]) Len() int {
	return len(s.rows)
}

// Scan implements Source.
func (s *SliceSource[T]) Scan(ctx context.Context, order Order, bound *Bound, limit int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []T{}, nil
	}

	out := make([]T, 0, min(limit, len(s.rows)))
	visit := func(r keyedRow[T]) bool {
		if bound != nil && !bound.Admits(r.key) {
			return true
		}
		out = append(out, r.row)
		return len(out) < limit
	}

	if order == Ascending {
		for _, r := range s.rows {
			if !visit(r) {
				break
			}
		}
	} else {
		for i := len(s.rows) - 1; i >= 0; i-- {
			if !visit(s.rows[i]) {
				break
			}
		}
	}
	return out, nil
}

// Exists implements Source. Rows are sorted, so only the smallest or the
// largest key needs checking.
func (s *SliceSource[T]) Exists(ctx context.Context, bound Bound) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(s.rows) == 0 {
		return false, nil
	}
	if bound.Op == GreaterThan {
		return bound.Admits(s.rows[len(s.rows)-1].key), nil
	}
	return bound.Admits(s.rows[0].key), nil
}
