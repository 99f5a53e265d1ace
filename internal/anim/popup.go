// Package anim drives the open/close transition of a popup.
//
// A Popup holds no timer of its own. Callers pass the current time to every
// method, so the same instant always yields the same frame and any render
// loop (or a test with synthetic times) can drive it.
package anim

import (
	"math"
	"time"
)

// Duration is the length of a full open or close transition.
const Duration = 150 * time.Millisecond

// MinScale and MaxScale bound the popup scale of a closed and an open popup.
const (
	MinScale = 0.95
	MaxScale = 1.0
)

// Frame is the interpolated state consumed by a renderer.
type Frame struct {
	Scale   float64
	Opacity float64
}

// Popup is a forward/reverse transition between closed (progress 0) and
// open (progress 1). The zero value is closed and idle.
type Popup struct {
	opening bool
	from    float64
	start   time.Time
}

// Open starts the opening transition from wherever the popup currently is.
// It is a no-op while already opening.
func (p *Popup) Open(now time.Time) { p.turn(now, true) }

// Close starts the closing transition from wherever the popup currently is.
// It is a no-op while already closing.
func (p *Popup) Close(now time.Time) { p.turn(now, false) }

func (p *Popup) turn(now time.Time, opening bool) {
	if opening == p.opening {
		return
	}
	p.from = p.Progress(now)
	p.start = now
	p.opening = opening
}

// Opening reports the current direction.
func (p *Popup) Opening() bool { return p.opening }

// Progress returns the linear progress in [0, 1] at now.
func (p *Popup) Progress(now time.Time) float64 {
	if p.start.IsZero() {
		if p.opening {
			return 1
		}
		return 0
	}
	step := float64(now.Sub(p.start)) / float64(Duration)
	if step < 0 {
		step = 0
	}
	if p.opening {
		return math.Min(1, p.from+step)
	}
	return math.Max(0, p.from-step)
}

// Animating reports whether the transition is still in flight at now.
func (p *Popup) Animating(now time.Time) bool {
	prog := p.Progress(now)
	if p.opening {
		return prog < 1
	}
	return prog > 0
}

// Advance returns the frame at now.
func (p *Popup) Advance(now time.Time) Frame {
	e := easeOutExpo(p.Progress(now))
	return Frame{
		Scale:   MinScale + (MaxScale-MinScale)*e,
		Opacity: e,
	}
}

func easeOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	return 1 - math.Pow(2, -10*t)
}
