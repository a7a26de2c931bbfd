package clock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/infrastructure/monitoring"
	"github.com/ledhaus/matrixd/internal/render"
	"github.com/ledhaus/matrixd/internal/render/font"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

// Animation modes.
const (
	ModeSimple     = "simple"
	ModeScrollDown = "scroll_down"
)

// Timing. A transition runs ScrollFrames steps over ScrollDuration; the
// tick loop polls every PollInterval for time changes and queued commands.
const (
	PollInterval   = 100 * time.Millisecond
	ScrollFrames   = 20
	ScrollDuration = 600 * time.Millisecond
)

// Animation targets accepted by TriggerAnimation.
const (
	TargetHour   = "hour"
	TargetMinute = "minute"
	TargetBoth   = "both"
)

// Options configures an Engine at launch. These are the values the
// supervisor serialized into flags.
type Options struct {
	Theme         string
	AnimationMode string
	ShowAMPM      bool
	Brightness    int
	Location      *time.Location
}

// command is one queued control input. Commands never interrupt a running
// transition; they apply at the next idle tick.
type command struct {
	kind    string
	theme   string
	target  string
	delta   int
	partial map[string]interface{}
}

// Engine is the animation state machine: one cooperative tick loop that
// owns the frame buffer exclusively.
type Engine struct {
	buffer  *render.Buffer
	digits  font.Face
	tiny    font.Face
	log     *logging.Logger
	metrics *monitoring.Metrics

	// Injectable for deterministic tests.
	now   func() time.Time
	sleep func(time.Duration)

	cmds chan command

	// Render-loop state. Only the Run goroutine touches these.
	theme      render.Theme
	mode       string
	showAMPM   bool
	location   *time.Location
	primed     bool
	prevHour   string
	prevMinute string
	started    time.Time

	// status is the snapshot served to the control channel.
	statusMu sync.Mutex
	status   types.ControlStatus
}

// NewEngine creates an engine over the given buffer.
func NewEngine(buffer *render.Buffer, opts Options, log *logging.Logger) *Engine {
	theme, ok := render.ResolveTheme(opts.Theme)
	if !ok {
		theme, _ = render.ResolveTheme(render.DefaultTheme)
	}
	mode := opts.AnimationMode
	if mode != ModeSimple && mode != ModeScrollDown {
		mode = ModeScrollDown
	}
	location := opts.Location
	if location == nil {
		location = time.Local
	}

	e := &Engine{
		buffer:   buffer,
		digits:   font.Digits(),
		tiny:     font.Tiny(),
		log:      log,
		now:      time.Now,
		sleep:    time.Sleep,
		cmds:     make(chan command, 16),
		theme:    theme,
		mode:     mode,
		showAMPM: opts.ShowAMPM,
		location: location,
	}
	buffer.SetBrightness(opts.Brightness)
	return e
}

// WithMetrics attaches a metrics collector.
func (e *Engine) WithMetrics(m *monitoring.Metrics) *Engine {
	e.metrics = m
	return e
}

// WithClock swaps the time and sleep sources. Test hook.
func (e *Engine) WithClock(now func() time.Time, sleep func(time.Duration)) *Engine {
	e.now = now
	e.sleep = sleep
	return e
}

// Run drives the tick loop until the context is canceled. It never returns
// on rendering errors; a failed present costs only that tick.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("Clock engine running",
		zap.String("theme", e.theme.Name),
		zap.String("mode", e.mode),
		zap.Int("brightness", e.buffer.Brightness()),
	)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		e.tick()
		e.sleep(PollInterval)
	}
}

// Tick runs exactly one idle tick: apply queued commands, detect content
// changes, render. Exported for deterministic tests; Run calls it in a loop.
func (e *Engine) Tick() { e.tick() }

func (e *Engine) tick() {
	if !e.primed {
		e.started = e.now()
		e.prevHour, e.prevMinute = e.timeStrings()
		e.primed = true
	}

	target := e.applyPending()

	hour, minute := e.timeStrings()
	hourChanged := hour != e.prevHour
	minuteChanged := minute != e.prevMinute

	animated := false
	if e.mode == ModeScrollDown {
		switch {
		case hourChanged && minuteChanged:
			e.transition("both",
				span{HourWindow, e.prevHour, hour},
				span{MinuteWindow, e.prevMinute, minute},
			)
			animated = true
		case hourChanged:
			e.transition("hour", span{HourWindow, e.prevHour, hour})
			animated = true
		case minuteChanged:
			e.transition("minute", span{MinuteWindow, e.prevMinute, minute})
			animated = true
		}

		if !animated && target != "" {
			switch target {
			case TargetHour:
				e.transition("hour", span{HourWindow, hour, hour})
			case TargetMinute:
				e.transition("minute", span{MinuteWindow, minute, minute})
			default:
				e.transition("both",
					span{HourWindow, hour, hour},
					span{MinuteWindow, minute, minute},
				)
			}
			animated = true
		}
	}

	e.prevHour, e.prevMinute = hour, minute

	if !animated {
		e.renderStatic(hour, minute)
		e.present()
	}
	e.updateStatus(hour, minute)
}

// span is one window's content change during a transition.
type span struct {
	window  render.Rect
	oldText string
	newText string
}

// transition scrolls old content down and out while new content drops in
// from above, synchronized across all given windows. It blocks for the full
// duration; commands queued meanwhile wait for the next idle tick.
func (e *Engine) transition(kind string, spans ...span) {
	if e.metrics != nil {
		e.metrics.Transitions.WithLabelValues(kind).Inc()
	}
	travel := spans[0].window.H + 8
	stepSleep := ScrollDuration / ScrollFrames

	static := e.staticSpans(spans)

	for step := 0; step <= ScrollFrames; step++ {
		progress := float64(step) / float64(ScrollFrames)
		offset := int(progress * float64(travel))

		f := e.buffer.Back()
		DrawChrome(f, e.theme)

		for _, s := range spans {
			DrawWindow(f, e.theme, s.window)
			e.drawScrolling(f, s.window, s.oldText, Baseline+offset)
			e.drawScrolling(f, s.window, s.newText, Baseline-travel+offset)
		}
		for _, s := range static {
			DrawWindow(f, e.theme, s.window)
			DrawDigits(f, e.digits, e.theme, s.window, s.newText)
		}

		ClipOutside(f, e.theme, AllWindows)
		e.drawIndicator(f)
		e.present()

		if step < ScrollFrames {
			e.sleep(stepSleep)
		}
	}

	// One authoritative static frame guards against rounding drift in the
	// animated approximation.
	hour, minute := e.timeStrings()
	e.renderStatic(hour, minute)
	e.present()
}

// staticSpans returns the windows not part of this transition, with their
// current content, so unrelated digits keep rendering mid-animation.
func (e *Engine) staticSpans(active []span) []span {
	hour, minute := e.timeStrings()
	all := []span{
		{HourWindow, hour, hour},
		{MinuteWindow, minute, minute},
	}
	var out []span
	for _, candidate := range all {
		moving := false
		for _, s := range active {
			if s.window == candidate.window {
				moving = true
				break
			}
		}
		if !moving {
			out = append(out, candidate)
		}
	}
	return out
}

// drawScrolling centers text horizontally in its window and draws it at an
// absolute baseline that may overshoot the window. The clip pass erases
// the overshoot.
func (e *Engine) drawScrolling(f *render.Frame, w render.Rect, text string, baselineY int) {
	width := font.TextWidth(e.digits, text)
	x := w.X + (w.W-width)/2
	font.DrawString(f, e.digits, x, baselineY, e.theme.Digit, text)
}

func (e *Engine) renderStatic(hour, minute string) {
	f := e.buffer.Back()
	DrawChrome(f, e.theme)
	DrawWindow(f, e.theme, HourWindow)
	DrawWindow(f, e.theme, MinuteWindow)
	DrawDigits(f, e.digits, e.theme, HourWindow, hour)
	DrawDigits(f, e.digits, e.theme, MinuteWindow, minute)
	e.drawIndicator(f)
}

func (e *Engine) drawIndicator(f *render.Frame) {
	if !e.showAMPM {
		return
	}
	DrawIndicator(f, e.tiny, e.theme, e.meridiem())
}

// present swaps the buffer. A sink failure costs this tick only.
func (e *Engine) present() {
	if err := e.buffer.Swap(); err != nil {
		if e.metrics != nil {
			e.metrics.SinkErrors.Inc()
		}
		e.log.Warn("Frame presentation failed", zap.Error(err))
		return
	}
	if e.metrics != nil {
		e.metrics.FramesPresented.Inc()
	}
}

// applyPending drains queued commands and returns the last manual
// animation target, if any.
func (e *Engine) applyPending() string {
	target := ""
	for {
		select {
		case cmd := <-e.cmds:
			switch cmd.kind {
			case "theme":
				e.applyTheme(cmd.theme)
			case "theme_next":
				e.applyTheme(render.NextTheme(e.theme.Name))
			case "animate":
				target = cmd.target
			case "mode_toggle":
				if e.mode == ModeSimple {
					e.mode = ModeScrollDown
				} else {
					e.mode = ModeSimple
				}
				e.log.Info("Animation mode changed", zap.String("mode", e.mode))
			case "brightness":
				applied := e.buffer.AdjustBrightness(cmd.delta)
				if e.metrics != nil {
					e.metrics.Brightness.Set(float64(applied))
				}
			case "config":
				e.applyConfig(cmd.partial)
			}
		default:
			return target
		}
	}
}

func (e *Engine) applyTheme(name string) {
	theme, ok := render.ResolveTheme(name)
	if !ok {
		e.log.Warn("Unknown theme ignored", zap.String("theme", name))
		return
	}
	e.theme = theme
	e.log.Info("Theme changed", zap.String("theme", name))
}

// applyConfig handles a live partial config push. Unknown keys are
// ignored; the persisted copy was already updated by the supervisor.
func (e *Engine) applyConfig(partial map[string]interface{}) {
	for k, v := range partial {
		switch k {
		case "color_theme":
			if s, ok := v.(string); ok {
				e.applyTheme(s)
			}
		case "animation_mode":
			if s, ok := v.(string); ok && (s == ModeSimple || s == ModeScrollDown) {
				e.mode = s
			}
		case "show_ampm":
			if b, ok := v.(bool); ok {
				e.showAMPM = b
			}
		case "brightness":
			if n, ok := toInt(v); ok {
				applied := e.buffer.SetBrightness(n)
				if e.metrics != nil {
					e.metrics.Brightness.Set(float64(applied))
				}
			}
		case "timezone":
			if s, ok := v.(string); ok {
				if loc, err := time.LoadLocation(s); err == nil {
					e.location = loc
				} else {
					e.log.Warn("Unknown timezone ignored", zap.String("timezone", s))
				}
			}
		}
	}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// SetTheme queues a theme switch. Callable from any goroutine.
func (e *Engine) SetTheme(name string) error {
	if _, ok := render.ResolveTheme(name); !ok {
		return fmt.Errorf("unknown theme: %s", name)
	}
	e.enqueue(command{kind: "theme", theme: name})
	return nil
}

// CycleTheme queues an advance to the next theme in the fixed list.
func (e *Engine) CycleTheme() {
	e.enqueue(command{kind: "theme_next"})
}

// AdjustBrightness queues a relative brightness change. The applied value
// is clamped when the command lands.
func (e *Engine) AdjustBrightness(delta int) {
	e.enqueue(command{kind: "brightness", delta: delta})
}

// ToggleAnimationMode queues a switch between simple and scroll rendering.
func (e *Engine) ToggleAnimationMode() {
	e.enqueue(command{kind: "mode_toggle"})
}

// TriggerAnimation queues a manual transition.
func (e *Engine) TriggerAnimation(target string) error {
	switch target {
	case TargetHour, TargetMinute, TargetBoth:
	default:
		return fmt.Errorf("unknown animation target: %s", target)
	}
	e.enqueue(command{kind: "animate", target: target})
	return nil
}

// PushConfig queues a partial configuration update.
func (e *Engine) PushConfig(partial map[string]interface{}) {
	e.enqueue(command{kind: "config", partial: partial})
}

// enqueue drops a command instead of blocking when the queue is full: the
// render loop must never be stalled by a slow control caller and vice versa.
func (e *Engine) enqueue(cmd command) {
	select {
	case e.cmds <- cmd:
	default:
		e.log.Warn("Command queue full, dropping command", zap.String("kind", cmd.kind))
	}
}

// Status returns the last idle-tick snapshot. Callable from any goroutine.
func (e *Engine) Status() types.ControlStatus {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	status := e.status
	status.Brightness = e.buffer.Brightness()
	return status
}

func (e *Engine) updateStatus(hour, minute string) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status = types.ControlStatus{
		Program:       "retro-clock",
		Theme:         e.theme.Name,
		AnimationMode: e.mode,
		ShowAMPM:      e.showAMPM,
		Hour:          hour,
		Minute:        minute,
		UptimeSeconds: e.now().Sub(e.started).Seconds(),
	}
}

// timeStrings formats the current time: 12-hour space-padded hour,
// zero-padded minute.
func (e *Engine) timeStrings() (string, string) {
	now := e.now().In(e.location)
	hour := now.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%2d", hour), fmt.Sprintf("%02d", now.Minute())
}

func (e *Engine) meridiem() string {
	if e.now().In(e.location).Hour() < 12 {
		return "am"
	}
	return "pm"
}
