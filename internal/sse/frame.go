// Package sse defines the event-stream protocol between the relay and
// its clients: a tagged frame union encoded as "data: <json>\n\n"
// records, plus an incremental reader for the client side.
package sse

import (
	"encoding/json"
	"fmt"
)

// FrameType discriminates the frame union.
type FrameType string

const (
	FrameDelta FrameType = "delta"
	FrameDone  FrameType = "done"
	FrameError FrameType = "error"
)

// Frame is one wire record. Exactly one terminal frame (done or error)
// ends a logical stream; any number of delta frames may precede it.
type Frame struct {
	Type    FrameType `json:"type"`
	Delta   string    `json:"delta,omitempty"`
	Message string    `json:"message,omitempty"`
}

func Delta(fragment string) Frame {
	return Frame{Type: FrameDelta, Delta: fragment}
}

func Done() Frame {
	return Frame{Type: FrameDone}
}

func Error(message string) Frame {
	return Frame{Type: FrameError, Message: message}
}

// Terminal reports whether no further frames may follow f.
func (f Frame) Terminal() bool {
	return f.Type == FrameDone || f.Type == FrameError
}

// Encode renders the frame as a wire record.
func (f Frame) Encode() []byte {
	payload, err := json.Marshal(f)
	if err != nil {
		// Frame has no unmarshalable fields; this cannot happen.
		panic(fmt.Sprintf("encode sse frame: %v", err))
	}
	return append(append([]byte("data: "), payload...), '\n', '\n')
}
