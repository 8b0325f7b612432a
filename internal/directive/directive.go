// Package directive carries the line-oriented build metadata the materializer
// hands to whatever orchestrates the native link step.
package directive

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Kind names one of the directive types understood by the build orchestrator.
type Kind string

const (
	RerunIfChanged Kind = "rerun-if-changed"
	Warning        Kind = "warning"
	LinkSearch     Kind = "link-search"
	LinkLib        Kind = "link-lib"
)

// Prefix starts every emitted directive line.
const Prefix = "ulbuild:"

// Directive is a single piece of build metadata.
type Directive struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// String renders d in the line protocol.
func (d Directive) String() string {
	return Prefix + string(d.Kind) + "=" + d.Value
}

// Emitter receives directives in the order they are produced.
type Emitter interface {
	Emit(Directive)
}

func Rerun(path string) Directive { return Directive{Kind: RerunIfChanged, Value: path} }

func Warn(format string, args ...any) Directive {
	return Directive{Kind: Warning, Value: fmt.Sprintf(format, args...)}
}

// Search adds a native library search path.
func Search(dir string) Directive { return Directive{Kind: LinkSearch, Value: "native=" + dir} }

func Link(name string) Directive { return Directive{Kind: LinkLib, Value: name} }

// LineEmitter writes one directive per line to W. Write errors are sticky and
// reported by Err.
type LineEmitter struct {
	W   io.Writer
	err error
}

func (e *LineEmitter) Emit(d Directive) {
	if e.err != nil || e.W == nil {
		return
	}
	// Newlines would split a directive across lines.
	value := strings.ReplaceAll(d.Value, "\n", " ")
	_, e.err = fmt.Fprintf(e.W, "%s%s=%s\n", Prefix, d.Kind, value)
}

// Err returns the first write error, if any.
func (e *LineEmitter) Err() error {
	return e.err
}

// Recorder keeps every directive in memory.
type Recorder struct {
	mu         sync.Mutex
	directives []Directive
}

func (r *Recorder) Emit(d Directive) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.directives = append(r.directives, d)
}

// Directives returns a copy of everything recorded so far.
func (r *Recorder) Directives() []Directive {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Directive(nil), r.directives...)
}

// OfKind returns the recorded values of kind k.
func (r *Recorder) OfKind(k Kind) []string {
	var out []string
	for _, d := range r.Directives() {
		if d.Kind == k {
			out = append(out, d.Value)
		}
	}
	return out
}

// Multi fans a directive out to several emitters.
type Multi []Emitter

func (m Multi) Emit(d Directive) {
	for _, e := range m {
		if e != nil {
			e.Emit(d)
		}
	}
}

// Discard drops every directive.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(Directive) {}
