package ui

import (
	"time"

	"github.com/google/uuid"

	"draftui/dom"
	"draftui/view"
)

const fadeSteps = 6

// FadeAnimator runs opacity transitions as a series of loop timers so the
// renderer shows nodes fading between frames.
type FadeAnimator struct {
	loop  *view.Loop
	id    string
	steps int
}

// NewFadeAnimator creates an animator scheduling its steps on loop.
func NewFadeAnimator(loop *view.Loop) *FadeAnimator {
	a := &FadeAnimator{loop: loop, id: "fadeAnimator-" + uuid.NewString(), steps: fadeSteps}
	loop.Register(a.id)
	return a
}

// Animate moves t.Node to t.Opacity over t.Duration, then calls done.
func (a *FadeAnimator) Animate(t dom.Transition, done func()) {
	if t.Duration <= 0 || a.steps < 1 {
		dom.ImmediateAnimator{}.Animate(t, done)
		return
	}

	from := t.Node.Opacity
	interval := t.Duration / time.Duration(a.steps)

	var step func(i int)
	step = func(i int) {
		if i >= a.steps {
			t.Node.Opacity = t.Opacity
			if done != nil {
				done()
			}
			return
		}
		if i > 0 {
			t.Node.Opacity = from + (t.Opacity-from)*float64(i)/float64(a.steps)
		}
		a.loop.After(a.id, interval, func() { step(i + 1) })
	}
	step(0)
}

// Stop drops the steps still pending; their done callbacks never run.
func (a *FadeAnimator) Stop() {
	a.loop.Unregister(a.id)
}
