package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"draftui/dom"
	"draftui/repository/testutil"
)

func TestFadeAnimatorStepsOpacity(t *testing.T) {
	env := testutil.NewEnv()
	a := NewFadeAnimator(env.Loop)
	node := dom.El("tr")

	done := 0
	a.Animate(dom.Transition{Node: node, Duration: 30 * time.Millisecond, Opacity: 0}, func() { done++ })

	assert.Equal(t, 1.0, node.Opacity)
	assert.Equal(t, 0, done)
	assert.Equal(t, 1, env.Loop.Pending())

	testutil.RunLoop(env.Loop)

	assert.Equal(t, 0.0, node.Opacity)
	assert.Equal(t, 1, done)
}

func TestFadeAnimatorWithoutDurationIsImmediate(t *testing.T) {
	env := testutil.NewEnv()
	a := NewFadeAnimator(env.Loop)
	node := dom.El("tr")

	done := 0
	a.Animate(dom.Transition{Node: node, Opacity: 0.25}, func() { done++ })

	assert.Equal(t, 0.25, node.Opacity)
	assert.Equal(t, 1, done)
	assert.Equal(t, 0, env.Loop.Pending())
}

func TestFadeAnimatorStop(t *testing.T) {
	env := testutil.NewEnv()
	a := NewFadeAnimator(env.Loop)
	node := dom.El("tr")

	done := 0
	a.Animate(dom.Transition{Node: node, Duration: 30 * time.Millisecond, Opacity: 0}, func() { done++ })
	a.Stop()
	testutil.RunLoop(env.Loop)

	assert.Equal(t, 0, done)
	assert.Equal(t, 1.0, node.Opacity)
}
