package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ShutdownOrder(t *testing.T) {
	m := New(0, nil)
	var order []string
	for _, name := range []string{"store", "recorder", "http"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "recorder", "store"}, order)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 3)
}

func TestManager_ShutdownJoinsErrors(t *testing.T) {
	m := New(0, nil)
	first := errors.New("redis close")
	second := errors.New("bolt close")
	ran := false

	m.RegisterCloser("redis", func() error { return first })
	m.Register("ok", func(context.Context) error { ran = true; return nil })
	m.RegisterCloser("bolt", func() error { return second })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.True(t, ran)
}

func TestManager_ListenFollowsParent(t *testing.T) {
	m := New(0, nil)
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := m.Listen(parent)
	defer stop()

	cancel()
	<-ctx.Done()
	assert.Error(t, ctx.Err())
}
