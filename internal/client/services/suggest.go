package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

const (
	DefaultSuggestDebounce = 300 * time.Millisecond
	// minSuggestLength is exceeded by any input that may trigger a request.
	minSuggestLength = 2
)

// Suggester debounces keystrokes into suggestion requests. Only the result
// of the latest input is delivered; superseded requests are cancelled and
// their results dropped.
//
// The callback runs on a timer goroutine, or synchronously inside Input when
// the input is too short and suggestions are cleared. It must not call back
// into the Suggester.
type Suggester struct {
	api      SearchAPI
	log      logging.Logger
	delay    time.Duration
	onUpdate func([]string)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool

	// deliverMu is held while the callback runs so Close can wait for it.
	deliverMu sync.Mutex
}

func NewSuggester(api SearchAPI, delay time.Duration, onUpdate func([]string), log logging.Logger) *Suggester {
	if delay <= 0 {
		delay = DefaultSuggestDebounce
	}
	return &Suggester{
		api:      api,
		log:      log.With("service", "suggest"),
		delay:    delay,
		onUpdate: onUpdate,
	}
}

func suggestible(partial string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(partial)) > minSuggestLength
}

// Input records a keystroke. Inputs of two characters or fewer clear the
// suggestions without a request; longer ones schedule a request after the
// debounce window, superseding anything scheduled or in flight.
func (s *Suggester) Input(partial string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.supersedeLocked()
	s.seq++
	seq := s.seq

	if !suggestible(partial) {
		s.mu.Unlock()
		s.deliver(seq, []string{})
		return
	}

	s.timer = time.AfterFunc(s.delay, func() { s.fire(seq, partial) })
	s.mu.Unlock()
}

func (s *Suggester) supersedeLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Suggester) fire(seq uint64, partial string) {
	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	s.deliver(seq, s.Suggest(ctx, partial))
}

func (s *Suggester) deliver(seq uint64, list []string) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	current := !s.closed && seq == s.seq
	s.mu.Unlock()

	if current && s.onUpdate != nil {
		s.onUpdate(list)
	}
}

// Suggest is the synchronous form: it never fails and returns an empty
// slice for short input or on error.
func (s *Suggester) Suggest(ctx context.Context, partial string) []string {
	partial = strings.TrimSpace(partial)
	if !suggestible(partial) {
		return []string{}
	}
	list, err := s.api.Suggest(ctx, partial)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn(ctx, "suggestions unavailable", "err", err)
		}
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

// Close stops the debounce timer and cancels any in-flight request. No
// callback runs after Close returns.
func (s *Suggester) Close() {
	s.mu.Lock()
	s.closed = true
	s.supersedeLocked()
	s.mu.Unlock()

	// Wait out a callback that passed its check before closed was set.
	s.deliverMu.Lock()
	s.deliverMu.Unlock() //nolint:staticcheck
}
