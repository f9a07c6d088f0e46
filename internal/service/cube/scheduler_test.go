package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshScheduler_StartStop(t *testing.T) {
	svc := setupService(t)
	sched := NewRefreshScheduler(svc, nil)

	require.NoError(t, sched.Start("@every 1h"))
	defer sched.Stop()

	assert.Equal(t, 1, sched.Entries(), "one entry per registered cube")
}

func TestRefreshScheduler_InvalidSchedule(t *testing.T) {
	svc := setupService(t)
	sched := NewRefreshScheduler(svc, nil)

	require.Error(t, sched.Start("not a schedule"))
}
