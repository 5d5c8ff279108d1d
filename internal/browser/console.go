package browser

import "strings"

// ConsoleMessageType mirrors the JavaScript console API method that produced
// a message. Covers the full Runtime.consoleAPICalled type set, not just the
// subset consulted by level filtering, so browser_console_messages output
// matches the original wire shape.
type ConsoleMessageType string

// Console message type constants.
const (
	ConsoleLog        ConsoleMessageType = "log"
	ConsoleDebug      ConsoleMessageType = "debug"
	ConsoleInfo       ConsoleMessageType = "info"
	ConsoleError      ConsoleMessageType = "error"
	ConsoleWarning    ConsoleMessageType = "warning"
	ConsoleDir        ConsoleMessageType = "dir"
	ConsoleDirXML     ConsoleMessageType = "dirxml"
	ConsoleTable      ConsoleMessageType = "table"
	ConsoleTrace      ConsoleMessageType = "trace"
	ConsoleClear      ConsoleMessageType = "clear"
	ConsoleCount      ConsoleMessageType = "count"
	ConsoleAssert     ConsoleMessageType = "assert"
	ConsoleProfile    ConsoleMessageType = "profile"
	ConsoleProfileEnd ConsoleMessageType = "profileEnd"
	ConsoleStartGroup ConsoleMessageType = "startGroup"
	ConsoleEndGroup   ConsoleMessageType = "endGroup"
	ConsoleTimeEnd    ConsoleMessageType = "timeEnd"
)

// ConsoleLevel is an ordered severity used to filter console_messages reads.
type ConsoleLevel int

// Console severity ladder, lowest first.
const (
	LevelDebug ConsoleLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// ParseConsoleLevel parses a case-insensitive level name, defaulting to Info
// for an empty string.
func ParseConsoleLevel(s string) ConsoleLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// severityOf maps a message type to its filtering severity: assert and error
// are Error, warning is Warning, debug is Debug, everything else is Info.
func severityOf(t ConsoleMessageType) ConsoleLevel {
	switch t {
	case ConsoleDebug:
		return LevelDebug
	case ConsoleWarning:
		return LevelWarning
	case ConsoleError, ConsoleAssert:
		return LevelError
	default:
		return LevelInfo
	}
}

// Includes reports whether a message of the given type passes this level
// filter (its mapped severity is >= the filter level).
func (l ConsoleLevel) Includes(t ConsoleMessageType) bool {
	return severityOf(t) >= l
}

// StoredMessage is a serializable console message, detached from any live
// CDP connection.
type StoredMessage struct {
	Type       ConsoleMessageType `json:"type"`
	Text       string             `json:"text"`
	Timestamp  float64            `json:"timestamp"`
	URL        *string            `json:"url,omitempty"`
	LineNumber *int               `json:"lineNumber,omitempty"`
}

// consoleBufferMax is the maximum number of messages retained per page.
const consoleBufferMax = 1000

// ConsoleBuffer is a bounded per-page FIFO of console messages.
type ConsoleBuffer struct {
	messages []StoredMessage
}

// NewConsoleBuffer creates an empty buffer.
func NewConsoleBuffer() *ConsoleBuffer {
	return &ConsoleBuffer{messages: make([]StoredMessage, 0, 64)}
}

// Push appends a message, evicting the oldest if the buffer is full.
func (b *ConsoleBuffer) Push(msg StoredMessage) {
	if len(b.messages) >= consoleBufferMax {
		b.messages = b.messages[1:]
	}
	b.messages = append(b.messages, msg)
}

// Messages returns all stored messages matching the given level filter.
func (b *ConsoleBuffer) Messages(level ConsoleLevel) []StoredMessage {
	out := make([]StoredMessage, 0, len(b.messages))
	for _, m := range b.messages {
		if level.Includes(m.Type) {
			out = append(out, m)
		}
	}
	return out
}

// All returns every stored message, unfiltered.
func (b *ConsoleBuffer) All() []StoredMessage { return b.messages }

// Clear empties the buffer.
func (b *ConsoleBuffer) Clear() { b.messages = b.messages[:0] }

// Len reports the number of stored messages.
func (b *ConsoleBuffer) Len() int { return len(b.messages) }
