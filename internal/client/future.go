package client

import "context"

// Future is the pending result of an API call
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Resolved returns a future that has already completed
func Resolved[T any](val T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: val, err: err}
	close(f.done)
	return f
}

// Go runs fn on its own goroutine and resolves the future with its result
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

func dispatch[T any](mode Mode, fn func() (T, error)) *Future[T] {
	if mode == Async {
		return Go(fn)
	}
	return Resolved(fn())
}

// Done is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx is done
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then registers the success and failure continuations. Exactly one of them
// runs, inline when the future is already resolved and on a new goroutine
// otherwise. The returned channel is closed after the continuation returns.
func (f *Future[T]) Then(onSuccess func(T), onFailure func(error)) <-chan struct{} {
	finished := make(chan struct{})

	run := func() {
		defer close(finished)
		if f.err != nil {
			if onFailure != nil {
				onFailure(f.err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(f.val)
		}
	}

	select {
	case <-f.done:
		run()
	default:
		go func() {
			<-f.done
			run()
		}()
	}

	return finished
}

// Map derives a future whose value is fn applied to the result of f
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	apply := func() (U, error) {
		<-f.done
		if f.err != nil {
			var zero U
			return zero, f.err
		}
		return fn(f.val)
	}

	select {
	case <-f.done:
		return Resolved(apply())
	default:
		return Go(apply)
	}
}
