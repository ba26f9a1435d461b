package campaigns

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AngelCh415/wb-ads-dashboard/internal/observability"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

// fakeWB is an in-process stand-in for the Wildberries APIs that counts
// calls per path.
type fakeWB struct {
	mu       sync.Mutex
	calls    map[string]int
	handlers map[string]http.HandlerFunc
	srv      *httptest.Server
}

func newFakeWB(t *testing.T) *fakeWB {
	t.Helper()
	f := &fakeWB{calls: map[string]int{}, handlers: map[string]http.HandlerFunc{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.URL.Path]++
		h := f.handlers[r.URL.Path]
		f.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeWB) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

func (f *fakeWB) json(path, body string) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeWB) status(path string, code int) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

// drop closes the connection without answering, producing a transport error.
func (f *fakeWB) drop(path string) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		conn, _, err := hj.Hijack()
		if err == nil {
			_ = conn.Close()
		}
	})
}

func (f *fakeWB) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeWB) service() *Service {
	factory := wbapi.NewFactory(&http.Client{Timeout: 5 * time.Second}, f.srv.URL, f.srv.URL, observability.NewNoOpRegistry())
	return NewService(factory.ForKey("test-key"), zap.NewNop(), observability.NewNoOpRegistry(), 4)
}
