package pipeline

import "context"

// Indexed pairs a value with its position in the source stream.
type Indexed[T any] struct {
	Index int
	Value T
}

// pull is an Iterator built from a next function over a source. Close
// always closes the source.
type pull[S, T any] struct {
	source Iterator[S]
	next   func(ctx context.Context, source Iterator[S]) (T, bool, error)
}

func (it *pull[S, T]) Next(ctx context.Context) (T, bool, error) { return it.next(ctx, it.source) }
func (it *pull[S, T]) Close() error                             { return it.source.Close() }

// derive builds a pipeline whose iterator wraps p's. newNext runs once per
// run, so per-run state lives in its closure.
func derive[S, T any](p *Pipeline[S], newNext func() func(context.Context, Iterator[S]) (T, bool, error)) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &pull[S, T]{source: p.create(ctx), next: newNext()}
		},
	}
}

// Map transforms each value using fn. An error from fn ends the stream.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return derive(p, func() func(context.Context, Iterator[I]) (O, bool, error) {
		return func(ctx context.Context, src Iterator[I]) (O, bool, error) {
			var zero O
			val, ok, err := src.Next(ctx)
			if err != nil || !ok {
				return zero, false, err
			}
			out, err := fn(ctx, val)
			if err != nil {
				return zero, false, err
			}
			return out, true, nil
		}
	})
}

// Filter keeps only values that satisfy keep.
func Filter[T any](p *Pipeline[T], keep func(T) bool) *Pipeline[T] {
	return derive(p, func() func(context.Context, Iterator[T]) (T, bool, error) {
		return func(ctx context.Context, src Iterator[T]) (T, bool, error) {
			for {
				val, ok, err := src.Next(ctx)
				if err != nil || !ok || keep(val) {
					return val, ok && err == nil, err
				}
			}
		}
	})
}

// Enumerate pairs each value with its 0-based position.
func Enumerate[T any](p *Pipeline[T]) *Pipeline[Indexed[T]] {
	return derive(p, func() func(context.Context, Iterator[T]) (Indexed[T], bool, error) {
		index := 0
		return func(ctx context.Context, src Iterator[T]) (Indexed[T], bool, error) {
			val, ok, err := src.Next(ctx)
			if err != nil || !ok {
				return Indexed[T]{}, false, err
			}
			index++
			return Indexed[T]{Index: index - 1, Value: val}, true, nil
		}
	})
}

// Reduce folds every value into init. The pipeline yields exactly one
// value, the final accumulator, unless the source fails.
func Reduce[T, R any](p *Pipeline[T], init R, fn func(R, T) R) *Pipeline[R] {
	return derive(p, func() func(context.Context, Iterator[T]) (R, bool, error) {
		acc, done := init, false
		return func(ctx context.Context, src Iterator[T]) (R, bool, error) {
			var zero R
			for !done {
				val, ok, err := src.Next(ctx)
				if err != nil {
					return zero, false, err
				}
				if !ok {
					done = true
					return acc, true, nil
				}
				acc = fn(acc, val)
			}
			return zero, false, nil
		}
	})
}
