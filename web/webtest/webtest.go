// Package webtest records what handlers hand to the renderer.
package webtest

import (
	"net/http"
	"sync"

	"github.com/KAsare1/Kodefx-blog/web"
)

type Call struct {
	Status int
	Name   string
	Data   any
}

// Recorder remembers every Render call and forwards it to Next, if set.
// Without Next it writes the status and the template name as the body.
type Recorder struct {
	Next web.Renderer

	mu    sync.Mutex
	calls []Call
}

func (rec *Recorder) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	rec.mu.Lock()
	rec.calls = append(rec.calls, Call{Status: status, Name: name, Data: data})
	rec.mu.Unlock()

	if rec.Next != nil {
		rec.Next.Render(w, r, status, name, data)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(name))
}

// Last returns the most recent call; ok is false when nothing was rendered.
func (rec *Recorder) Last() (Call, bool) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.calls) == 0 {
		return Call{}, false
	}
	return rec.calls[len(rec.calls)-1], true
}

func (rec *Recorder) Reset() {
	rec.mu.Lock()
	rec.calls = nil
	rec.mu.Unlock()
}
