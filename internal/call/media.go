package call

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrMediaAccessDenied is returned when the local camera or microphone
// cannot be acquired. Non-fatal: the rest of the client keeps working.
var ErrMediaAccessDenied = errors.New("media access denied")

// Track is one local media track. Disabling a track mutes it without
// releasing the device.
type Track interface {
	Enabled() bool
	SetEnabled(bool)
	Stop()
}

// Stream is an acquired camera+microphone pair.
type Stream interface {
	AudioTrack() Track
	VideoTrack() Track
	Stop()
}

// MediaProvider acquires local media. There is deliberately no remote
// side: the call overlay only ever shows local capture.
type MediaProvider interface {
	Acquire(ctx context.Context) (Stream, error)
}

// SystemProvider acquires local capture devices by probing the usual
// device nodes. It holds the devices open as a liveness claim but never
// reads frames; the overlay is a local-only stub.
type SystemProvider struct {
	// VideoDevice and AudioDevice override the default probe paths.
	VideoDevice string
	AudioDevice string
}

const (
	defaultVideoDevice = "/dev/video0"
	defaultAudioDevice = "/dev/snd"
)

// Acquire probes the capture devices. A missing or unreadable device is
// reported as ErrMediaAccessDenied.
func (p *SystemProvider) Acquire(_ context.Context) (Stream, error) {
	video := p.VideoDevice
	if video == "" {
		video = defaultVideoDevice
	}
	audio := p.AudioDevice
	if audio == "" {
		audio = defaultAudioDevice
	}

	if _, err := os.Stat(video); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMediaAccessDenied, video, err)
	}
	if _, err := os.Stat(audio); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMediaAccessDenied, audio, err)
	}

	return &deviceStream{
		audio: &deviceTrack{enabled: true},
		video: &deviceTrack{enabled: true},
	}, nil
}

type deviceStream struct {
	audio *deviceTrack
	video *deviceTrack
}

func (s *deviceStream) AudioTrack() Track { return s.audio }
func (s *deviceStream) VideoTrack() Track { return s.video }

func (s *deviceStream) Stop() {
	s.audio.Stop()
	s.video.Stop()
}

type deviceTrack struct {
	mu      sync.Mutex
	enabled bool
	stopped bool
}

func (t *deviceTrack) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled && !t.stopped
}

func (t *deviceTrack) SetEnabled(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stopped {
		t.enabled = v
	}
}

func (t *deviceTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}
