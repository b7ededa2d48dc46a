package listener

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/probablyarth/evalonce-go/diagnostics/callstack"
)

const pkgPrefix = "github.com/probablyarth/evalonce-go/listener."

// EventNameHook logs every notified event. Events whose name starts with
// '*' are logged at warn level, without the star.
func EventNameHook[K comparable](l *zap.Logger) Hook[K] {
	return func(event K) error {
		logEvent(l, event)
		return nil
	}
}

// CallerHook logs every notified event together with the function that
// called Notify.
func CallerHook[K comparable](l *zap.Logger) Hook[K] {
	a, _ := callstack.New(
		callstack.WithFilter(func(fn string) bool { return !strings.HasPrefix(fn, pkgPrefix) }),
		callstack.WithLimit(1),
	)
	return func(event K) error {
		frames := a.Frames()
		if len(frames) == 0 {
			logEvent(l, event, zap.String("caller", "unknown"))
			return nil
		}
		logEvent(l, event, zap.String("caller", callstack.DefaultFormat(frames[0])))
		return nil
	}
}

// StackHook logs every notified event with the call stack rendered by a.
// A nil a reports the whole stack outside this package.
func StackHook[K comparable](l *zap.Logger, a *callstack.Analyzer) Hook[K] {
	if a == nil {
		a, _ = callstack.New(callstack.WithFilter(func(fn string) bool {
			return !strings.HasPrefix(fn, pkgPrefix)
		}))
	}
	return func(event K) error {
		logEvent(l, event, zap.String("stack", a.String()))
		return nil
	}
}

func logEvent(l *zap.Logger, event any, fields ...zap.Field) {
	name := fmt.Sprint(event)
	if rest, ok := strings.CutPrefix(name, "*"); ok {
		l.Warn("event", append(fields, zap.String("event", rest))...)
		return
	}
	l.Info("event", append(fields, zap.String("event", name))...)
}
