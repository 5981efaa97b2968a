package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var Emit = func(ctx context.Context, name string, evt Event) {}

// EnableRuntimeEmitter routes events to the Wails frontend and log. Only valid
// with a context handed out by the Wails runtime.
func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt Event) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}

		if name != CommitEventLog || evt.Type == EventSuccess || evt.Type == EventError {
			runtime.EventsEmit(ctx, name, evt)
		}

		if name != CommitEventMessage {
			logRuntimeEvent(ctx, name, evt)
		}
	}

}

func SetCustomEmitter(f func(ctx context.Context, name string, evt Event)) {
	if f == nil {
		Emit = func(context.Context, string, Event) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt Event) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		f(ctx, name, evt)
	}
}
