package analytics_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthsense.dev/telemetry-analytics/pkg/analytics"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
	_ "healthsense.dev/telemetry-analytics/pkg/testing"
)

func TestBucketKey(t *testing.T) {
	cases := []struct {
		when      time.Time
		isResting bool
		expected  string
	}{
		// 2026-08-24 is a Monday, 2026-08-29 a Saturday
		{time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC), false, "Morning_Active_Weekday"},
		{time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), false, "Afternoon_Active_Weekday"},
		{time.Date(2026, 8, 24, 18, 0, 0, 0, time.UTC), true, "Evening_Resting_Weekday"},
		{time.Date(2026, 8, 24, 21, 59, 0, 0, time.UTC), false, "Evening_Active_Weekday"},
		{time.Date(2026, 8, 24, 22, 0, 0, 0, time.UTC), true, "Night_Resting_Weekday"},
		{time.Date(2026, 8, 24, 5, 59, 0, 0, time.UTC), true, "Night_Resting_Weekday"},
		{time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC), true, "Morning_Resting_Weekend"},
		{time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC), false, "Night_Active_Weekend"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, analytics.BucketKey(c.when, c.isResting))
	}
}

// mondayMorningHistory builds n records inside the Morning_Active_Weekday
// bucket, one minute apart.
func mondayMorningHistory(n int, build func(i int, rec *models.Telemetry)) []models.Telemetry {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	history := make([]models.Telemetry, n)
	for i := 0; i < n; i++ {
		history[i] = models.Telemetry{
			Timestamp: base.Add(time.Duration(i) * time.Minute).UnixMilli(),
		}
		build(i, &history[i])
	}
	return history
}

func TestLearnBaselineInsufficientHistory(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _ := GetMockEngineWithMemorySqliteDialector(t)
	defer ctrl.Finish()

	deviceID := uuid.NewString()
	history := mondayMorningHistory(analytics.MinLearnRecords-1, func(i int, rec *models.Telemetry) {
		rec.Bpm = models.F(70)
	})

	_, err := engine.Baseline.Learn(deviceID, history)
	require.ErrorIs(t, err, analytics.ErrInsufficientData)

	patterns, err := engine.Baseline.Current(deviceID)
	require.NoError(t, err)
	assert.Nil(t, patterns)
}

func TestLearnBaselineStatsAndBucketMinimum(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _ := GetMockEngineWithMemorySqliteDialector(t)
	defer ctrl.Finish()

	deviceID := uuid.NewString()

	// bpm on all 60 records alternating 70/80, hrv on only 9 of them,
	// temp on exactly the per-metric sample minimum
	history := mondayMorningHistory(60, func(i int, rec *models.Telemetry) {
		if i%2 == 0 {
			rec.Bpm = models.F(70)
		} else {
			rec.Bpm = models.F(80)
		}
		if i < analytics.MinBucketSamples-1 {
			rec.Hrv = models.F(50)
		}
		if i < analytics.MinBucketSamples {
			rec.Temp = models.F(36.5)
		}
	})

	patterns, err := engine.Baseline.Learn(deviceID, history)
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	profile, ok := patterns["Morning_Active_Weekday"]
	require.True(t, ok)
	require.NotNil(t, profile.Bpm)
	assert.Equal(t, 75.0, profile.Bpm.Mean)
	assert.Equal(t, 5.0, profile.Bpm.Std)
	// hrv never reached the per-metric sample minimum; temp sits exactly
	// on it and qualifies
	assert.Nil(t, profile.Hrv)
	require.NotNil(t, profile.Temp)
	assert.Equal(t, 36.5, profile.Temp.Mean)
	assert.Equal(t, 0.0, profile.Temp.Std)
	assert.Nil(t, profile.SpO2)

	// persisted snapshot round-trips through the store
	stored, err := engine.Baseline.Current(deviceID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, patterns, stored)
}

func TestLearnBaselineOrderIndependent(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _ := GetMockEngineWithMemorySqliteDialector(t)
	defer ctrl.Finish()

	history := mondayMorningHistory(60, func(i int, rec *models.Telemetry) {
		rec.Bpm = models.F(60 + float64(i%7))
		rec.Hrv = models.F(40 + float64(i%5))
	})

	first, err := engine.Baseline.Learn(uuid.NewString(), history)
	require.NoError(t, err)

	shuffled := make([]models.Telemetry, len(history))
	copy(shuffled, history)
	rnd := rand.New(rand.NewSource(1))
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	second, err := engine.Baseline.Learn(uuid.NewString(), shuffled)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLearnBaselineReplacesSnapshotWholesale(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _ := GetMockEngineWithMemorySqliteDialector(t)
	defer ctrl.Finish()

	deviceID := uuid.NewString()

	morning := mondayMorningHistory(60, func(i int, rec *models.Telemetry) {
		rec.Bpm = models.F(70)
	})
	_, err := engine.Baseline.Learn(deviceID, morning)
	require.NoError(t, err)

	// a later learn from evening-only data must not keep the morning bucket
	evening := make([]models.Telemetry, 60)
	base := time.Date(2026, 8, 24, 19, 0, 0, 0, time.UTC)
	for i := range evening {
		evening[i] = models.Telemetry{
			Timestamp: base.Add(time.Duration(i) * time.Minute).UnixMilli(),
			Bpm:       models.F(65),
		}
	}
	_, err = engine.Baseline.Learn(deviceID, evening)
	require.NoError(t, err)

	patterns, err := engine.Baseline.Current(deviceID)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	_, ok := patterns["Evening_Active_Weekday"]
	assert.True(t, ok)
	_, ok = patterns["Morning_Active_Weekday"]
	assert.False(t, ok)
}

func TestRotateBaseline(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, engine, _ := GetMockEngineWithMemorySqliteDialector(t)
	defer ctrl.Finish()

	deviceID := uuid.NewString()

	// rotating with no current snapshot is a no-op
	require.NoError(t, engine.Baseline.Rotate(deviceID))
	previous, err := engine.Baseline.Previous(deviceID)
	require.NoError(t, err)
	assert.Nil(t, previous)

	history := mondayMorningHistory(60, func(i int, rec *models.Telemetry) {
		rec.Bpm = models.F(70)
	})
	current, err := engine.Baseline.Learn(deviceID, history)
	require.NoError(t, err)

	require.NoError(t, engine.Baseline.Rotate(deviceID))

	previous, err = engine.Baseline.Previous(deviceID)
	require.NoError(t, err)
	assert.Equal(t, current, previous)

	// rotating again overwrites the previous slot, it does not stack
	require.NoError(t, engine.Baseline.Rotate(deviceID))
	previous, err = engine.Baseline.Previous(deviceID)
	require.NoError(t, err)
	assert.Equal(t, current, previous)
}
