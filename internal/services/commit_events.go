package services

import (
	"context"

	"commitsugar/internal/events"
)

const (
	progressTitle        = "Generating commit message..."
	actionOpenSettings   = "Open Settings"
	noticeMissingAPIKey  = "API key is not configured. Set it in Settings or the COMMITSUGAR_API_KEY environment variable."
	noticeNothingToWrite = "No changes to commit."
)

func emitLog(ctx context.Context, evt events.Event) {
	events.Emit(ctx, events.CommitEventLog, evt)
}

func emitNotice(ctx context.Context, evt events.Event) {
	events.Emit(ctx, events.CommitEventNotice, evt)
}

func emitBusy(ctx context.Context, busy bool) {
	events.Emit(ctx, events.CommitEventBusy, events.NewBusy(busy))
}

func emitProgress(ctx context.Context, active bool) {
	events.Emit(ctx, events.CommitEventProgress, events.NewProgress(progressTitle, active))
}

func emitMessage(ctx context.Context, text string) {
	events.Emit(ctx, events.CommitEventMessage, events.NewMessage(text))
}

// EventSink publishes every sink write as a commit message event, for hosts
// whose input field lives on the other side of the event bus.
type EventSink struct {
	ctx context.Context
}

func NewEventSink(ctx context.Context) *EventSink {
	return &EventSink{ctx: ctx}
}

func (e *EventSink) SetValue(value string) {
	emitMessage(e.ctx, value)
}
