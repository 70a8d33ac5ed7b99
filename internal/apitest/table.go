package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// table is an ordered in-memory collection keyed by server-assigned id
type table[T any] struct {
	mu    sync.Mutex
	next  int64
	order []int64
	rows  map[int64]T
	getID func(T) int64
	setID func(*T, int64)
}

func newTable[T any](getID func(T) int64, setID func(*T, int64)) *table[T] {
	return &table[T]{
		rows:  make(map[int64]T),
		getID: getID,
		setID: setID,
	}
}

// insert stores v under its own id when it has one, otherwise under the
// next free id
func (t *table[T]) insert(v T) T {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.getID(v)
	if _, taken := t.rows[id]; id <= 0 || taken {
		id = t.next + 1
	}
	if id > t.next {
		t.next = id
	}

	t.setID(&v, id)
	t.rows[id] = v
	t.order = append(t.order, id)
	return v
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) replace(id int64, v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.setID(&v, id)
	t.rows[id] = v
	return true
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) list() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = make(map[int64]T)
	t.order = nil
}

func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func listHandler[T any](t *table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusOK, t.list())
	}
}

func getHandler[T any](t *table[T], notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			sendError(w, http.StatusNotFound, notFound)
			return
		}
		v, ok := t.get(id)
		if !ok {
			sendError(w, http.StatusNotFound, notFound)
			return
		}
		sendJSON(w, http.StatusOK, v)
	}
}

func createHandler[T any](t *table[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			sendError(w, http.StatusBadRequest, "Invalid JSON structure")
			return
		}
		t.setID(&v, 0)
		sendJSON(w, http.StatusCreated, t.insert(v))
	}
}

func updateHandler[T any](t *table[T], notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			sendError(w, http.StatusNotFound, notFound)
			return
		}
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			sendError(w, http.StatusBadRequest, "Invalid JSON structure")
			return
		}
		if !t.replace(id, v) {
			sendError(w, http.StatusNotFound, notFound)
			return
		}
		v, _ = t.get(id)
		sendJSON(w, http.StatusOK, v)
	}
}

func deleteHandler[T any](t *table[T], message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok || !t.remove(id) {
			sendError(w, http.StatusNotFound, "Not found")
			return
		}
		sendOK(w, message)
	}
}
