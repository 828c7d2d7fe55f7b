package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// recordingEvents captures prune calls without a database.
type recordingEvents struct {
	cutoffs []time.Time
}

func (r *recordingEvents) Record(eventType, level, message string, userID *string) {}

func (r *recordingEvents) Recent(limit int) ([]models.Event, error) { return nil, nil }

func (r *recordingEvents) PruneOlderThan(cutoff time.Time) (int64, error) {
	r.cutoffs = append(r.cutoffs, cutoff)
	return 0, nil
}

func TestNewJanitor_RejectsBadCron(t *testing.T) {
	t.Parallel()

	_, err := NewJanitor(&recordingEvents{}, "not a cron expr", 24*time.Hour)
	assert.Error(t, err)
}

func TestJanitor_PruneUsesRetentionWindow(t *testing.T) {
	t.Parallel()

	events := &recordingEvents{}
	j, err := NewJanitor(events, "0 4 * * *", 30*24*time.Hour)
	require.NoError(t, err)

	now := time.Now()
	j.prune(now)

	require.Len(t, events.cutoffs, 1)
	assert.WithinDuration(t, now.Add(-30*24*time.Hour), events.cutoffs[0], time.Second)
}

func TestJanitor_NextRunFollowsSchedule(t *testing.T) {
	t.Parallel()

	j, err := NewJanitor(&recordingEvents{}, "0 4 * * *", 24*time.Hour)
	require.NoError(t, err)

	assert.True(t, j.nextRun.After(time.Now()))
	assert.Equal(t, 4, j.nextRun.Hour())
}
