package driver

import "time"

// Stage describes the phase a document is in.
type Stage string

const (
	StageCache Stage = "cache"
	StageParse Stage = "parse"
	StageRules Stage = "rules"
)

// Status captures progress state of a document.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	// StatusCached marks documents known clean from a previous run.
	StatusCached Status = "cached"
	// StatusSkipped marks generated documents left alone.
	StatusSkipped Status = "skipped"
)

// Event reports progress for a document.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Findings int
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}

// finalEvent summarises the outcome of res.
func finalEvent(res *DocumentResult, elapsed time.Duration) Event {
	ev := Event{File: res.Path, Elapsed: elapsed}
	switch {
	case res.Err != nil:
		ev.Status, ev.Err = StatusError, res.Err
	case res.Cached:
		ev.Status = StatusCached
	case res.Skipped:
		ev.Status = StatusSkipped
	default:
		ev.Status = StatusDone
	}
	if res.Bag != nil {
		ev.Findings = res.Bag.Len()
	}
	return ev
}
