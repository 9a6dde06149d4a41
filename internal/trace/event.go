package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	KindHeartbeat // periodic liveness signal
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event; coarser scopes have lower values.
type Scope uint8

const (
	// ScopeDriver covers whole runs: discovery, scheduling, writing files.
	ScopeDriver Scope = iota + 1
	// ScopeDocument covers the processing of one source file.
	ScopeDocument
	// ScopeRule covers a single rule over a single document, and resolver decisions.
	ScopeRule
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeDocument:
		return "document"
	case ScopeRule:
		return "rule"
	default:
		return "unknown"
	}
}

// Attr is a key-value pair attached to a span end.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	// Doc is the path of the document the event belongs to, if any.
	Doc    string
	Name   string
	Detail string
	Attrs  []Attr
}
