package pipeline

import (
	"context"
	"sync"
)

// Parallel applies fn to each value on n workers. Output order follows
// completion, not input; pair it with Enumerate when order matters. The
// first error, from fn or from the source, stops every worker and is
// returned by the consumer's next pull.
func Parallel[I, O any](p *Pipeline[I], n int, fn func(context.Context, I) (O, error)) *Pipeline[O] {
	n = max(n, 1)
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			source := p.create(ctx)
			ctx, cancel := context.WithCancel(ctx)
			in := make(chan I, n)
			out := make(chan result[O], n)

			// emit reports whether the worker should keep going.
			emit := func(r result[O]) bool {
				select {
				case out <- r:
					return r.err == nil
				case <-ctx.Done():
					return false
				}
			}

			var wg sync.WaitGroup
			wg.Go(func() {
				defer close(in)
				for {
					val, ok, err := source.Next(ctx)
					if err != nil {
						emit(result[O]{err: err})
						return
					}
					if !ok {
						return
					}
					select {
					case in <- val:
					case <-ctx.Done():
						return
					}
				}
			})
			for range n {
				wg.Go(func() {
					for val := range in {
						o, err := fn(ctx, val)
						if err != nil {
							emit(result[O]{err: err})
							cancel()
							return
						}
						if !emit(result[O]{val: o, ok: true}) {
							return
						}
					}
				})
			}
			go func() {
				wg.Wait()
				close(out)
			}()

			return &channelIter[O]{
				ch: out,
				closer: func() error {
					cancel()
					return source.Close()
				},
			}
		},
	}
}
