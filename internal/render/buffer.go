package render

import "sync"

// Brightness bounds accepted by the panel.
const (
	MinBrightness = 1
	MaxBrightness = 100
)

// Sink receives finished frames. The hardware driver behind it is opaque;
// Present must not retain the frame.
type Sink interface {
	Present(frame *Frame, brightness int) error
}

// Buffer is the double-buffered grid: all drawing goes to the back frame,
// Swap presents it and hands back a cleared canvas.
type Buffer struct {
	mu         sync.Mutex
	back       *Frame
	sink       Sink
	brightness int
}

// NewBuffer creates a buffer presenting to the given sink.
func NewBuffer(width, height int, sink Sink) *Buffer {
	return &Buffer{
		back:       NewFrame(width, height),
		sink:       sink,
		brightness: MaxBrightness,
	}
}

// Back returns the frame to draw on. Only the owner of the render loop may
// touch it between Swaps.
func (b *Buffer) Back() *Frame {
	return b.back
}

// Swap presents the back frame and clears it for the next draw. The sink
// sees a copy, so a slow driver cannot observe half-drawn state.
func (b *Buffer) Swap() error {
	b.mu.Lock()
	frame := b.back.Clone()
	brightness := b.brightness
	b.mu.Unlock()

	err := b.sink.Present(frame, brightness)
	b.back.Fill(Color{})
	return err
}

// SetBrightness clamps and applies a new brightness.
func (b *Buffer) SetBrightness(v int) int {
	if v < MinBrightness {
		v = MinBrightness
	}
	if v > MaxBrightness {
		v = MaxBrightness
	}
	b.mu.Lock()
	b.brightness = v
	b.mu.Unlock()
	return v
}

// AdjustBrightness shifts brightness by delta, clamped.
func (b *Buffer) AdjustBrightness(delta int) int {
	b.mu.Lock()
	v := b.brightness
	b.mu.Unlock()
	return b.SetBrightness(v + delta)
}

// Brightness returns the current value.
func (b *Buffer) Brightness() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.brightness
}

// MemorySink records every presented frame. Test double.
type MemorySink struct {
	mu         sync.Mutex
	Frames     []*Frame
	Brightness []int
}

func (s *MemorySink) Present(frame *Frame, brightness int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Frames = append(s.Frames, frame)
	s.Brightness = append(s.Brightness, brightness)
	return nil
}

// Last returns the most recently presented frame, or nil.
func (s *MemorySink) Last() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

// Count returns how many frames were presented.
func (s *MemorySink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Frames)
}

// NullSink discards frames. Useful when no panel is attached.
type NullSink struct{}

func (NullSink) Present(_ *Frame, _ int) error { return nil }
