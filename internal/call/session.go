// Package call implements the local-only video call overlay: camera and
// microphone capture plus an elapsed-time counter. There is no
// signaling, no remote stream, and no peer connection.
package call

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/bus"
)

// TickEvent is the payload of call.tick events, published once per
// second while a call is active.
type TickEvent struct {
	Elapsed time.Duration
}

// Session manages one call at a time.
type Session struct {
	provider MediaProvider
	clock    clock.Clock
	bus      *bus.Bus
	logger   *zap.Logger

	machine *machine

	mu        sync.Mutex
	stream    Stream
	startedAt time.Time
	elapsed   time.Duration
	ticker    *clock.Ticker
	done      chan struct{}
}

// NewSession creates a call session.
func NewSession(provider MediaProvider, clk clock.Clock, b *bus.Bus, logger *zap.Logger) *Session {
	return &Session{
		provider: provider,
		clock:    clk,
		bus:      b,
		logger:   logger,
		machine:  newMachine(b),
	}
}

// State returns the current call state.
func (s *Session) State() State {
	return s.machine.Current()
}

// StartVideo requests camera and microphone access and, on grant, starts
// the elapsed counter at 1-second resolution. On denial the session
// returns to idle and the error wraps ErrMediaAccessDenied.
func (s *Session) StartVideo(ctx context.Context) error {
	if err := s.machine.Transition(Requesting); err != nil {
		return err
	}

	stream, err := s.provider.Acquire(ctx)
	if err != nil {
		_ = s.machine.Transition(Idle)
		s.logger.Warn("media acquisition failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.stream = stream
	s.startedAt = s.clock.Now()
	s.elapsed = 0
	s.ticker = s.clock.Ticker(time.Second)
	s.done = make(chan struct{})
	go s.tickLoop(s.ticker, s.done)
	s.mu.Unlock()

	if err := s.machine.Transition(Active); err != nil {
		return err
	}
	s.logger.Info("video call started")
	return nil
}

func (s *Session) tickLoop(ticker *clock.Ticker, done chan struct{}) {
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.elapsed = s.clock.Now().Sub(s.startedAt).Truncate(time.Second)
			elapsed := s.elapsed
			s.mu.Unlock()
			s.bus.Publish(bus.Event{Kind: bus.KindCallTick, Payload: TickEvent{Elapsed: elapsed}})
		case <-done:
			return
		}
	}
}

// Elapsed returns the displayed call duration. Zero when no call is
// active.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// ToggleMute flips the audio track's enabled flag. No-op when no stream
// is active.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return
	}
	t := s.stream.AudioTrack()
	t.SetEnabled(!t.Enabled())
}

// ToggleVideo flips the video track's enabled flag. No-op when no
// stream is active.
func (s *Session) ToggleVideo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return
	}
	t := s.stream.VideoTrack()
	t.SetEnabled(!t.Enabled())
}

// Muted reports whether the audio track is disabled. False when no call
// is active.
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil && !s.stream.AudioTrack().Enabled()
}

// VideoOff reports whether the video track is disabled.
func (s *Session) VideoOff() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil && !s.stream.VideoTrack().Enabled()
}

// End stops all acquired media tracks, cancels the tick timer, and
// resets the displayed elapsed time to zero. Safe to call when idle.
func (s *Session) End() {
	s.mu.Lock()
	if s.stream != nil {
		s.stream.Stop()
		s.stream = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.elapsed = 0
	s.mu.Unlock()

	if s.machine.Current() != Idle {
		_ = s.machine.Transition(Idle)
		s.logger.Info("call ended")
	}
}
