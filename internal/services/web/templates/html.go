package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so components read top to bottom.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, out io.Writer) *writer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &writer{ctx: ctx, w: out}
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) attr(name, value string) {
	w.raw(` ` + name + `="`)
	w.text(value)
	w.raw(`"`)
}

func (w *writer) href(link string) {
	w.attr("href", string(templ.URL(link)))
}

func (w *writer) component(c templ.Component) {
	if w.err == nil && c != nil {
		w.err = c.Render(w.ctx, w.w)
	}
}

func (w *writer) children() {
	w.component(templ.GetChildren(w.ctx))
}

func component(render func(*writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := newWriter(ctx, out)
		render(w)
		return w.err
	})
}

// form opens a POST form; the caller closes it with endForm.
func (w *writer) form(action string, attrs ...string) {
	w.raw(`<form method="post"`)
	w.attr("action", string(templ.URL(action)))
	for idx := 0; idx+1 < len(attrs); idx += 2 {
		w.attr(attrs[idx], attrs[idx+1])
	}
	w.raw(`>`)
}

func (w *writer) endForm() {
	w.raw(`</form>`)
}

func (w *writer) hidden(name, value string) {
	w.raw(`<input type="hidden"`)
	w.attr("name", name)
	w.attr("value", value)
	w.raw(`>`)
}

func (w *writer) input(kind, name, label, value string, required bool) {
	w.raw(`<label class="field"><span>`)
	w.text(label)
	w.raw(`</span><input`)
	w.attr("type", kind)
	w.attr("name", name)
	if value != "" {
		w.attr("value", value)
	}
	if required {
		w.raw(` required`)
	}
	w.raw(`></label>`)
}

func (w *writer) submit(label string, class string) {
	w.raw(`<button type="submit"`)
	if class != "" {
		w.attr("class", class)
	}
	w.raw(`>`)
	w.text(label)
	w.raw(`</button>`)
}

func (w *writer) link(href, label string) {
	w.raw(`<a`)
	w.href(href)
	w.raw(`>`)
	w.text(label)
	w.raw(`</a>`)
}

func (w *writer) alert(kind, message string) {
	if message == "" {
		return
	}
	w.raw(`<p role="alert"`)
	w.attr("class", "alert alert-"+kind)
	w.raw(`>`)
	w.text(message)
	w.raw(`</p>`)
}
