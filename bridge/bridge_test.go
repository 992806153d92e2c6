package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftui/dom"
	"draftui/repository/testutil"
	"draftui/view"
)

type stubView struct {
	view.Base

	renders int
}

func newStubView(env *view.Env) *stubView {
	v := &stubView{}
	v.Init(v, env, "stubView")
	return v
}

func (v *stubView) Render() {
	v.renders++
	v.Container().SetText("rendered")
}

// asyncFactory builds stub views through the loop, as real factories do.
type asyncFactory struct {
	env   *view.Env
	err   error
	calls int
	built []*stubView
}

func (f *asyncFactory) CreateView(owner string, done func(view.View, error)) {
	f.calls++
	view.Call(f.env.Loop, owner, func(ctx context.Context) (int, error) {
		return f.calls, f.err
	}, func(_ int, err error) {
		if err != nil {
			done(nil, err)
			return
		}
		v := newStubView(f.env)
		f.built = append(f.built, v)
		done(v, nil)
	})
}

func newContainer() *dom.Node {
	doc := dom.El("document")
	node := dom.El("div", dom.TextNode("Loading…"))
	doc.Append(node)
	return node
}

func TestReadySignal(t *testing.T) {
	s := NewReadySignal()
	assert.False(t, s.Ready())

	var order []string
	s.Subscribe(func() { order = append(order, "a") })
	unsubscribe := s.Subscribe(func() { order = append(order, "b") })
	s.Subscribe(func() { order = append(order, "c") })
	unsubscribe()
	assert.Equal(t, 2, s.Pending())

	s.Fire()
	s.Fire()

	assert.True(t, s.Ready())
	assert.Equal(t, []string{"a", "c"}, order)
	assert.Equal(t, 0, s.Pending())

	s.Subscribe(func() { order = append(order, "late") })
	assert.Equal(t, []string{"a", "c"}, order)
}

func TestConnectWhenReady(t *testing.T) {
	env := testutil.NewEnv()
	ready := NewReadySignal()
	ready.Fire()
	factory := &asyncFactory{env: env}
	node := newContainer()

	b := New(node, factory, ready, env.Loop)
	b.Connect()
	assert.Equal(t, 1, factory.calls)
	assert.Nil(t, b.View())
	assert.Equal(t, "Loading…", node.TextContent())

	testutil.RunLoop(env.Loop)

	require.Len(t, factory.built, 1)
	v := factory.built[0]
	assert.Same(t, v, b.View())
	assert.True(t, v.Active())
	assert.Equal(t, 1, v.renders)
	require.Len(t, node.Children(), 1)
	assert.Same(t, v.Container(), node.Children()[0])
	assert.True(t, node.HasClass(PresentationClass))
	assert.Equal(t, "rendered", node.TextContent())
}

func TestConnectDefersUntilReady(t *testing.T) {
	env := testutil.NewEnv()
	ready := NewReadySignal()
	factory := &asyncFactory{env: env}

	b := New(newContainer(), factory, ready, env.Loop)
	b.Connect()
	b.Connect()

	assert.True(t, b.Waiting())
	assert.Equal(t, 0, factory.calls)
	assert.Equal(t, 1, ready.Pending())

	ready.Fire()
	assert.False(t, b.Waiting())
	assert.Equal(t, 1, factory.calls)

	testutil.RunLoop(env.Loop)
	assert.NotNil(t, b.View())
}

func TestDisconnectWhileWaiting(t *testing.T) {
	env := testutil.NewEnv()
	ready := NewReadySignal()
	factory := &asyncFactory{env: env}

	b := New(newContainer(), factory, ready, env.Loop)
	b.Connect()
	b.Disconnect()

	assert.Equal(t, 0, ready.Pending())
	ready.Fire()
	assert.Equal(t, 0, factory.calls)

	b.Connect()
	assert.Equal(t, 1, factory.calls)
	testutil.RunLoop(env.Loop)
	assert.NotNil(t, b.View())
}

func TestFactoryError(t *testing.T) {
	env := testutil.NewEnv()
	ready := NewReadySignal()
	ready.Fire()
	factory := &asyncFactory{env: env, err: errors.New("content 12 not found")}
	node := newContainer()

	b := New(node, factory, ready, env.Loop)
	b.Connect()
	testutil.RunLoop(env.Loop)

	assert.Nil(t, b.View())
	assert.EqualError(t, b.Err(), "content 12 not found")
	assert.Equal(t, "content 12 not found", node.TextContent())
	assert.False(t, node.HasClass(PresentationClass))
}

func TestNoFactory(t *testing.T) {
	env := testutil.NewEnv()
	node := newContainer()

	b := New(node, nil, nil, env.Loop)
	b.Connect()

	assert.ErrorIs(t, b.Err(), ErrNoFactory)
	assert.Equal(t, ErrNoFactory.Error(), node.TextContent())
}

func TestDisconnectDestroysView(t *testing.T) {
	env := testutil.NewEnv()
	ready := NewReadySignal()
	ready.Fire()
	factory := &asyncFactory{env: env}
	node := newContainer()

	b := New(node, factory, ready, env.Loop)
	b.Connect()
	testutil.RunLoop(env.Loop)
	v := factory.built[0]

	b.Disconnect()

	assert.False(t, v.Active())
	assert.True(t, v.Destroyed())
	assert.Nil(t, b.View())
	assert.Empty(t, node.Children())
	assert.False(t, b.Connected())
}

func TestResultAfterDisconnectIsDropped(t *testing.T) {
	env := testutil.NewEnv()
	ready := NewReadySignal()
	ready.Fire()
	factory := &asyncFactory{env: env}
	node := newContainer()

	b := New(node, factory, ready, env.Loop)
	b.Connect()
	b.Disconnect()
	testutil.RunLoop(env.Loop)

	assert.Empty(t, factory.built)
	assert.Nil(t, b.View())
	assert.Equal(t, "Loading…", node.TextContent())
}

func TestStaleViewIsDestroyed(t *testing.T) {
	env := testutil.NewEnv()
	ready := NewReadySignal()
	ready.Fire()

	var pending func(view.View, error)
	b := New(newContainer(), FactoryFunc(func(owner string, done func(view.View, error)) {
		pending = done
	}), ready, env.Loop)
	b.Connect()
	b.Disconnect()

	stale := newStubView(env)
	pending(stale, nil)

	assert.True(t, stale.Destroyed())
	assert.Nil(t, b.View())
}
