package llm

import (
	"context"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func collect(stream TokenStream) []string {
	var deltas []string
	for stream.Next() {
		deltas = append(deltas, stream.Current())
	}
	return deltas
}

var _ = Describe("Fallback", func() {
	newFixed := func(choice int) *Fallback {
		return &Fallback{interval: time.Millisecond, pick: func(int) int { return choice }}
	}

	It("emits one canned reply word by word", func() {
		reply := cannedReplies[0]
		stream := newFixed(0).Stream(context.Background())

		deltas := collect(stream)

		Expect(deltas).To(HaveLen(len(strings.Fields(reply))))
		Expect(strings.Join(deltas, "")).To(Equal(reply))
		Expect(stream.Err()).NotTo(HaveOccurred())
	})

	It("prefixes every delta after the first with a space", func() {
		deltas := collect(newFixed(1).Stream(context.Background()))

		Expect(deltas[0]).NotTo(HavePrefix(" "))
		for _, d := range deltas[1:] {
			Expect(d).To(HavePrefix(" "))
		}
	})

	It("stops promptly on cancellation without reporting an error", func() {
		ctx, cancel := context.WithCancel(context.Background())
		stream := newFixed(0).Stream(ctx)

		Expect(stream.Next()).To(BeTrue())
		cancel()

		Expect(stream.Next()).To(BeFalse())
		Expect(stream.Err()).NotTo(HaveOccurred())
	})

	It("surfaces a deadline expiry as a stream error", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()

		stream := (&Fallback{interval: time.Hour, pick: func(int) int { return 0 }}).Stream(ctx)

		Expect(stream.Next()).To(BeFalse())
		Expect(stream.Err()).To(MatchError(context.DeadlineExceeded))
	})

	It("picks within the canned reply range", func() {
		f := NewFallback()
		for range 50 {
			Expect(f.pick(len(cannedReplies))).To(SatisfyAll(
				BeNumerically(">=", 0),
				BeNumerically("<", len(cannedReplies)),
			))
		}
	})
})
