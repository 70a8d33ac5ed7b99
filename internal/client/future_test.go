package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestThenRunsInlineWhenResolved(t *testing.T) {
	var got int
	done := Resolved(42, nil).Then(func(v int) { got = v }, func(error) {
		t.Error("failure continuation called")
	})

	select {
	case <-done:
	default:
		t.Fatal("continuation of a resolved future did not run inline")
	}
	if got != 42 {
		t.Errorf("got %d", got)
	}
}

func TestThenFailure(t *testing.T) {
	boom := errors.New("boom")
	release := make(chan struct{})

	f := Go(func() (string, error) {
		<-release
		return "", boom
	})

	var got error
	done := f.Then(func(string) { t.Error("success continuation called") }, func(err error) { got = err })

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("continuation did not run")
	}
	if !errors.Is(got, boom) {
		t.Errorf("got %v", got)
	}
}

func TestAwaitContext(t *testing.T) {
	f := Go(func() (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await() error = %v", err)
	}
}

func TestMap(t *testing.T) {
	f := Map(Resolved(2, nil), func(v int) (string, error) {
		return string(rune('a' + v)), nil
	})
	v, err := f.Await(context.Background())
	if err != nil || v != "c" {
		t.Errorf("Map() = %q, %v", v, err)
	}

	boom := errors.New("boom")
	called := false
	g := Map(Resolved(0, boom), func(int) (int, error) {
		called = true
		return 0, nil
	})
	if _, err := g.Await(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected source error, got %v", err)
	}
	if called {
		t.Error("fn must not run on failure")
	}
}

func TestDispatch(t *testing.T) {
	f := dispatch(Sync, func() (int, error) { return 1, nil })
	select {
	case <-f.Done():
	default:
		t.Error("sync dispatch must resolve before returning")
	}
}
