package sse_test

import (
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"draftdeck.app/refinery/internal/sse"
)

// chunkReader yields one predefined chunk per Read call, so tests can
// control exactly where the byte stream is split.
type chunkReader struct {
	chunks [][]byte
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n == len(c.chunks[0]) {
		c.chunks = c.chunks[1:]
	} else {
		c.chunks[0] = c.chunks[0][n:]
	}
	return n, nil
}

var _ = Describe("Frame", func() {
	It("encodes as a data record with a blank-line terminator", func() {
		Expect(string(sse.Delta("hi").Encode())).To(Equal(`data: {"type":"delta","delta":"hi"}` + "\n\n"))
		Expect(string(sse.Done().Encode())).To(Equal(`data: {"type":"done"}` + "\n\n"))
		Expect(string(sse.Error("boom").Encode())).To(Equal(`data: {"type":"error","message":"boom"}` + "\n\n"))
	})

	It("marks done and error frames terminal", func() {
		Expect(sse.Delta("x").Terminal()).To(BeFalse())
		Expect(sse.Done().Terminal()).To(BeTrue())
		Expect(sse.Error("x").Terminal()).To(BeTrue())
	})
})

var _ = Describe("Reader", func() {
	readAll := func(r *sse.Reader) ([]sse.Frame, error) {
		var frames []sse.Frame
		for {
			frame, err := r.Next()
			if err != nil {
				return frames, err
			}
			frames = append(frames, frame)
		}
	}

	It("decodes a sequence of frames ending in done", func() {
		body := string(sse.Delta("Hello").Encode()) +
			string(sse.Delta(" world").Encode()) +
			string(sse.Done().Encode())

		frames, err := readAll(sse.NewReader(strings.NewReader(body)))

		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]sse.Frame{sse.Delta("Hello"), sse.Delta(" world"), sse.Done()}))
	})

	It("skips malformed records without aborting the stream", func() {
		body := "data: {not json}\n\n" +
			"event: ping\n\n" +
			`data: {"type":"mystery"}` + "\n\n" +
			string(sse.Done().Encode())

		frames, err := readAll(sse.NewReader(strings.NewReader(body)))

		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]sse.Frame{sse.Done()}))
	})

	It("discards a trailing partial record at EOF", func() {
		body := string(sse.Delta("a").Encode()) + `data: {"type":"de`

		frames, err := readAll(sse.NewReader(strings.NewReader(body)))

		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]sse.Frame{sse.Delta("a")}))
	})

	It("decodes multi-byte characters split across read chunks", func() {
		record := sse.Delta("héllo wörld ✓").Encode()

		// Split mid-rune: find a multi-byte sequence and cut inside it.
		cut := -1
		for i, b := range record {
			if b >= 0x80 {
				cut = i + 1
				break
			}
		}
		Expect(cut).To(BeNumerically(">", 0))

		reader := sse.NewReader(&chunkReader{chunks: [][]byte{
			record[:cut],
			append(append([]byte(nil), record[cut:]...), sse.Done().Encode()...),
		}})

		frames, err := readAll(reader)

		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]sse.Frame{sse.Delta("héllo wörld ✓"), sse.Done()}))
	})
})
