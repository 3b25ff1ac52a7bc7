package echo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/chatbench/pkg/params"
)

func TestComplete(t *testing.T) {
	a := New()

	reply, err := a.Complete(context.Background(), "  hello   there  ", params.Defaults())
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)

	total := a.UsageTracker().Total()
	assert.Equal(t, 2, total.InputTokens)
	assert.Equal(t, 2, total.OutputTokens)
}

func TestComplete_TruncatesToMaxOutputTokens(t *testing.T) {
	a := New()
	p := params.Defaults()
	p.MaxOutputTokens = 2

	reply, err := a.Complete(context.Background(), "one two three four", p)
	require.NoError(t, err)
	assert.Equal(t, "one two", reply)
	assert.Equal(t, 4, a.UsageTracker().Total().InputTokens)
	assert.Equal(t, 2, a.UsageTracker().Total().OutputTokens)
}

func TestComplete_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Complete(ctx, "hi", params.Defaults())
	require.ErrorIs(t, err, context.Canceled)
}
