package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_WithoutReportFunction(t *testing.T) {
	s := New("0 21 * * *", nil)
	require.NoError(t, s.Start())
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New("every day", nil)
	s.SetReportFunction(func(context.Context) error { return nil })
	assert.Error(t, s.Start())
}

func TestStart_RegistersJob(t *testing.T) {
	s := New("0 21 * * *", nil)
	s.SetReportFunction(func(context.Context) error { return nil })
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	s.Stop()
}

func TestRunReport_PassesContextAndSurvivesErrors(t *testing.T) {
	s := New("0 21 * * *", nil)
	calls := 0
	s.SetReportFunction(func(ctx context.Context) error {
		calls++
		assert.NoError(t, ctx.Err())
		return errors.New("recorder unavailable")
	})
	s.runReport()
	s.runReport()
	assert.Equal(t, 2, calls)

	s.Stop()
}
