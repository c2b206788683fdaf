package sse

import (
	"bytes"
	"encoding/json"
	"io"
)

var recordDelim = []byte("\n\n")

// Reader incrementally decodes frames from an event-stream body.
// Buffering is byte-level: records are only converted to text once a
// full "\n\n"-terminated record is available, so multi-byte characters
// split across read chunks decode correctly. Malformed records are
// skipped without aborting the stream.
type Reader struct {
	src io.Reader
	buf []byte
	err error
}

func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Next returns the next well-formed frame. It returns io.EOF when the
// body ends; any trailing partial record is discarded.
func (r *Reader) Next() (Frame, error) {
	for {
		if i := bytes.Index(r.buf, recordDelim); i >= 0 {
			record := r.buf[:i]
			r.buf = r.buf[i+len(recordDelim):]
			if frame, ok := parseRecord(record); ok {
				return frame, nil
			}
			continue
		}

		if r.err != nil {
			return Frame{}, r.err
		}

		chunk := make([]byte, 4096)
		n, err := r.src.Read(chunk)
		if n > 0 {
			r.buf = append(r.buf, chunk[:n]...)
		}
		if err != nil {
			// Drain buffered records before surfacing the error.
			r.err = err
		}
	}
}

func parseRecord(record []byte) (Frame, bool) {
	record = bytes.TrimSpace(record)
	rest, ok := bytes.CutPrefix(record, []byte("data:"))
	if !ok {
		return Frame{}, false
	}
	rest = bytes.TrimSpace(rest)

	var frame Frame
	if err := json.Unmarshal(rest, &frame); err != nil {
		return Frame{}, false
	}
	switch frame.Type {
	case FrameDelta, FrameDone, FrameError:
		return frame, true
	}
	return Frame{}, false
}
