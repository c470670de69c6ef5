// Package revalidate records "refetch this path" signals raised by actions and
// flushes them to the browser as an HX-Trigger header.
package revalidate

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// TriggerHeader is the HTMX response header carrying client events.
const TriggerHeader = "HX-Trigger"

// EventName is the client event the dashboard listens for.
const EventName = "revalidate"

// Notifier receives revalidation signals. Implementations must not block.
type Notifier interface {
	Revalidate(ctx context.Context, path string)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, path string)

// Revalidate calls f.
func (f NotifierFunc) Revalidate(ctx context.Context, path string) {
	if f != nil {
		f(ctx, path)
	}
}

// Discard drops every signal.
var Discard Notifier = NotifierFunc(func(context.Context, string) {})

type recorderKey struct{}

// Recorder collects the paths signaled during one request.
type Recorder struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// Paths returns the recorded paths in sorted order.
func (r *Recorder) Paths() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, 0, len(r.paths))
	for path := range r.paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (r *Recorder) add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paths == nil {
		r.paths = map[string]struct{}{}
	}
	r.paths[path] = struct{}{}
}

// WithRecorder returns ctx carrying a fresh request recorder.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	if ctx == nil {
		ctx = context.Background()
	}
	recorder := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, recorder), recorder
}

// RecorderFrom returns the recorder carried by ctx.
func RecorderFrom(ctx context.Context) *Recorder {
	if ctx == nil {
		return nil
	}
	recorder, _ := ctx.Value(recorderKey{}).(*Recorder)
	return recorder
}

// RequestNotifier records signals on the request recorder when one is
// present and drops them otherwise.
type RequestNotifier struct{}

// Revalidate records path on the recorder carried by ctx.
func (RequestNotifier) Revalidate(ctx context.Context, path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if recorder := RecorderFrom(ctx); recorder != nil {
		recorder.add(path)
	}
}

// Middleware installs a recorder on every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := WithRecorder(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type triggerPayload struct {
	Paths []string `json:"paths"`
}

// WriteHeader sets HX-Trigger for the paths recorded on ctx. It must run
// before the response status is written.
func WriteHeader(ctx context.Context, w http.ResponseWriter) {
	if w == nil {
		return
	}
	paths := RecorderFrom(ctx).Paths()
	if len(paths) == 0 {
		return
	}
	payload, err := json.Marshal(map[string]triggerPayload{EventName: {Paths: paths}})
	if err != nil {
		return
	}
	w.Header().Set(TriggerHeader, string(payload))
}
