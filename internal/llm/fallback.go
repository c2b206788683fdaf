package llm

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"
)

const defaultWordInterval = 40 * time.Millisecond

var cannedReplies = []string{
	"That sounds like a solid direction. Could you tell me who the primary user is and what outcome they expect, so we can tighten the title and description?",
	"Good progress. I'd suggest making the first acceptance criterion observable from the user's point of view. Want me to rework it?",
	"Let's make sure the description states the problem before the solution. What pain does this remove for the user?",
	"I can draft the full template whenever you're ready. Say the word and I'll lay out the title, description, and criteria.",
	"One gap I see: there's no failure path covered yet. Should we add a criterion for what the user sees when things go wrong?",
}

// Fallback synthesizes a token stream when no upstream is reachable:
// one pseudo-randomly chosen canned reply, emitted word by word at a
// fixed interval. Every delta after the first carries a leading space
// so concatenation reproduces the sentence exactly.
type Fallback struct {
	interval time.Duration
	pick     func(n int) int
}

func NewFallback() *Fallback {
	return &Fallback{interval: defaultWordInterval, pick: rand.Intn}
}

// Stream starts a canned stream scoped to ctx. Cancellation stops the
// word timer promptly; no timer outlives the request.
func (f *Fallback) Stream(ctx context.Context) TokenStream {
	reply := cannedReplies[f.pick(len(cannedReplies))]
	return &fallbackStream{
		ctx:      ctx,
		words:    strings.Fields(reply),
		interval: f.interval,
	}
}

type fallbackStream struct {
	ctx      context.Context
	words    []string
	interval time.Duration
	next     int
	current  string
	err      error
}

func (s *fallbackStream) Next() bool {
	if s.next >= len(s.words) {
		return false
	}

	timer := time.NewTimer(s.interval)
	select {
	case <-s.ctx.Done():
		timer.Stop()
		s.err = s.ctx.Err()
		return false
	case <-timer.C:
	}

	word := s.words[s.next]
	if s.next > 0 {
		word = " " + word
	}
	s.current = word
	s.next++
	return true
}

func (s *fallbackStream) Current() string { return s.current }

func (s *fallbackStream) Err() error {
	// Client cancellation is the normal end of a fallback stream, not
	// a failure to report.
	if errors.Is(s.err, context.Canceled) {
		return nil
	}
	return s.err
}

func (s *fallbackStream) Close() error { return nil }
