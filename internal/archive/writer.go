package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

const (
	StreamTypeStdout   = "stdout"
	StreamTypeProgress = "progress"
	StreamTypeComplete = "complete"
	StreamTypeResult   = "result"
	StreamTypeError    = "error"
)

type StreamMessage struct {
	Type      string    `json:"type"`
	Data      string    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// EventStreamWriter writes progress as server-sent events, one JSON StreamMessage
// per event, flushing after each one when the writer supports it.
type EventStreamWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewEventStreamWriter(writer io.Writer) *EventStreamWriter {
	return &EventStreamWriter{writer: writer}
}

func (w *EventStreamWriter) WriteMessage(msgType string, data string) {
	message := StreamMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.writer, "data: %s\n\n", messageBytes); err != nil {
		return
	}

	if flusher, ok := w.writer.(interface{ Flush() }); ok {
		defer func() {
			_ = recover()
		}()
		flusher.Flush()
	}
}

func (w *EventStreamWriter) WriteError(data string) {
	w.WriteMessage(StreamTypeError, data)
}

func (w *EventStreamWriter) WriteStdout(data string) {
	w.WriteMessage(StreamTypeStdout, data)
}

// TextWriter prints progress as plain lines; errors are prefixed.
type TextWriter struct {
	writer io.Writer
}

func NewTextWriter(writer io.Writer) *TextWriter {
	return &TextWriter{writer: writer}
}

func (w *TextWriter) WriteMessage(msgType string, data string) {
	if msgType == StreamTypeError {
		fmt.Fprintf(w.writer, "error: %s\n", data)
		return
	}
	fmt.Fprintln(w.writer, data)
}

func (w *TextWriter) WriteError(data string) {
	w.WriteMessage(StreamTypeError, data)
}

func (w *TextWriter) WriteStdout(data string) {
	w.WriteMessage(StreamTypeStdout, data)
}
