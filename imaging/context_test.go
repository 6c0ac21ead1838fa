package imaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContextLogDisabledByDefault(t *testing.T) {
	ctx := NewContext(false)
	ctx.Progressf("hello %d", 1)
	assert.Equal(t, 0, ctx.LogCount())
}

func TestContextLogRecordsWhenEnabled(t *testing.T) {
	ctx := NewContext(true)
	ctx.Progressf("stage done")
	ctx.Warningf("slow stage")
	require := assert.New(t)
	require.Equal(2, ctx.LogCount())
	require.Contains(ctx.LogText(0), "PROG ")
	require.Contains(ctx.LogText(1), "WARN ")
}

func TestContextResetLogOnlyWhenEnabled(t *testing.T) {
	ctx := NewContext(true)
	ctx.Progressf("one")
	ctx.ResetLog()
	assert.Equal(t, 0, ctx.LogCount())

	ctx.EnableLog(false)
	ctx.Progressf("ignored")
	assert.Equal(t, 0, ctx.LogCount())
}

func TestContextTimerAccumulatesAcrossStartStop(t *testing.T) {
	ctx := NewContext(true)
	ctx.StartTimer(StagePreprocess)
	time.Sleep(time.Millisecond)
	ctx.StopTimer(StagePreprocess)
	ctx.StartTimer(StagePreprocess)
	time.Sleep(time.Millisecond)
	ctx.StopTimer(StagePreprocess)
	assert.Greater(t, ctx.ElapsedTime(StagePreprocess), time.Duration(0))
}

func TestContextTimerDisabledReturnsZero(t *testing.T) {
	ctx := NewContext(false)
	ctx.StartTimer(StageEdges)
	time.Sleep(time.Millisecond)
	ctx.StopTimer(StageEdges)
	assert.Equal(t, time.Duration(0), ctx.ElapsedTime(StageEdges))
}
