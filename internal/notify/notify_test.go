package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_DrainReturnsAndResets(t *testing.T) {
	buf := NewBuffer()
	ctx := context.Background()

	buf.Info(ctx, "Reservation confirmed", "Seat 1A is yours.")
	buf.Error(ctx, "Reservation failed", "Try again.")

	notices := buf.Drain()
	require.Len(t, notices, 2)
	assert.Equal(t, Notice{Kind: KindInfo, Title: "Reservation confirmed", Description: "Seat 1A is yours."}, notices[0])
	assert.Equal(t, KindError, notices[1].Kind)

	assert.Empty(t, buf.Drain())
}

func TestMulti_FansOut(t *testing.T) {
	ctx := context.Background()
	a, b := NewBuffer(), NewBuffer()

	m := Multi{a, b}
	m.Info(ctx, "Reservation moved", "Seat 1A moved.")

	require.Len(t, a.Drain(), 1)
	require.Len(t, b.Drain(), 1)
}
