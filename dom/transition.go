package dom

import "time"

// VanishDuration is the opacity transition length used when a node fades
// out before being removed.
const VanishDuration = 300 * time.Millisecond

// Transition describes an opacity transition on a node.
type Transition struct {
	Node     *Node
	Duration time.Duration
	Opacity  float64
}

// Animator runs transitions. Done must be called once the node reached the
// target opacity.
type Animator interface {
	Animate(t Transition, done func())
}

// ImmediateAnimator applies transitions synchronously.
type ImmediateAnimator struct{}

// Animate sets the final opacity and calls done.
func (ImmediateAnimator) Animate(t Transition, done func()) {
	t.Node.Opacity = t.Opacity
	if done != nil {
		done()
	}
}
