// Package callstack captures and formats the current goroutine's call stack.
//
// Closures and the frames of this package itself are never reported, so the
// result names the named functions a reader would recognise.
package callstack

import (
	"errors"
	"math"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

const (
	pkgPrefix = "github.com/probablyarth/evalonce-go/diagnostics/callstack."
	maxDepth  = 64
)

var (
	// ErrInvalidLimit is returned by New when the limit is below 1.
	ErrInvalidLimit = errors.New("callstack: limit must be a positive number")
	// ErrNilFilter is returned by New when WithFilter was given nil.
	ErrNilFilter = errors.New("callstack: filter is nil")
	// ErrNilFormat is returned by New when WithFormat was given nil.
	ErrNilFormat = errors.New("callstack: format is nil")
)

// closures: Outer.func1, Outer.func1.2, Outer.gowrap1, glob..func1
var anonymous = regexp.MustCompile(`\.(func|gowrap)\d+(\.\d+)*$`)

// Frame is a single named function on the stack.
type Frame struct {
	Function string // fully qualified, e.g. "example.com/pkg.(*T).Method"
	File     string
	Line     int
}

// Package returns the import path part of the function name.
func (f Frame) Package() string {
	pkg, _ := splitFunction(f.Function)
	return pkg
}

// Name returns the function name without its package, e.g. "(*T).Method".
func (f Frame) Name() string {
	_, name := splitFunction(f.Function)
	return name
}

// DefaultFormat renders a frame as "pkg.Func(...)[line]".
func DefaultFormat(f Frame) string {
	return f.Function + "(...)[" + strconv.Itoa(f.Line) + "]"
}

// Analyzer selects, formats and joins stack frames.
type Analyzer struct {
	filter    func(function string) bool
	limit     int
	separator string
	format    func(Frame) string
}

// New builds an Analyzer. By default every frame is kept, joined with
// "\n  " and rendered with DefaultFormat.
func New(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		filter:    func(string) bool { return true },
		limit:     math.MaxInt,
		separator: "\n  ",
		format:    DefaultFormat,
	}
	for _, opt := range opts {
		opt(a)
	}
	switch {
	case a.limit < 1:
		return nil, ErrInvalidLimit
	case a.filter == nil:
		return nil, ErrNilFilter
	case a.format == nil:
		return nil, ErrNilFormat
	}
	return a, nil
}

// Frames returns the matching frames of the caller's stack, innermost first.
func (a *Analyzer) Frames() []Frame {
	out := make([]Frame, 0, min(a.limit, maxDepth))
	walk(2, func(f Frame) bool {
		if !a.filter(f.Function) {
			return true
		}
		out = append(out, f)
		return len(out) < a.limit
	})
	return out
}

// String returns the formatted, joined stack of the caller.
func (a *Analyzer) String() string {
	return a.join(a.Frames())
}

// SendTo passes the formatted stack of the caller to sink.
func (a *Analyzer) SendTo(sink func(string)) {
	sink(a.join(a.Frames()))
}

func (a *Analyzer) join(frames []Frame) string {
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = a.format(f)
	}
	return strings.Join(parts, a.separator)
}

// Caller returns the first named frame skip levels above the function
// calling Caller; skip 0 names that function itself. Closures are stepped over.
func Caller(skip int) (Frame, bool) {
	var (
		found Frame
		ok    bool
	)
	walk(skip+2, func(f Frame) bool {
		found, ok = f, true
		return false
	})
	return found, ok
}

// walk visits named frames starting skip levels above walk's caller
// until visit returns false.
func walk(skip int, visit func(Frame) bool) {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		fr, more := frames.Next()
		if keep(fr.Function) && !visit(Frame{Function: fr.Function, File: fr.File, Line: fr.Line}) {
			return
		}
		if !more {
			return
		}
	}
}

func keep(function string) bool {
	switch {
	case function == "":
		return false
	case strings.HasPrefix(function, "runtime."):
		return false
	case strings.HasPrefix(function, pkgPrefix):
		return false
	}
	return !anonymous.MatchString(function)
}

func splitFunction(function string) (pkg, name string) {
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return "", function
	}
	return function[:slash+1+dot], function[slash+1+dot+1:]
}
