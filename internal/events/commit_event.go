package events

import "strconv"

const (
	CommitEventLog      = "events:commit:log"
	CommitEventNotice   = "events:commit:notice"
	CommitEventMessage  = "events:commit:message"
	CommitEventBusy     = "events:commit:busy"
	CommitEventProgress = "events:commit:progress"
)

const (
	MetaBusy   = "busy"
	MetaAction = "action"
	MetaActive = "active"
)

// NewBusy reports the generation busy flag. Hosts use it to enable the abort action.
func NewBusy(busy bool) Event {
	return NewInfo("generating").WithMeta(MetaBusy, strconv.FormatBool(busy))
}

// NewMessage carries the full current commit-message draft.
func NewMessage(text string) Event {
	return NewInfo(text)
}

// NewProgress starts or stops a long-running indication with the given title.
func NewProgress(title string, active bool) Event {
	return NewInfo(title).WithMeta(MetaActive, strconv.FormatBool(active))
}

// NewWarnAction is a warning the host should render with an action button.
func NewWarnAction(message, action string) Event {
	return NewWarn(message).WithMeta(MetaAction, action)
}

// IsBusy decodes a busy event produced by NewBusy.
func IsBusy(evt Event) bool {
	busy, _ := strconv.ParseBool(evt.Metadata[MetaBusy])
	return busy
}
