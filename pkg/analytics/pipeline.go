package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/models"
)

// Pipeline gates. Learning is sampled probabilistically per record once the
// device has some recent history; sleep and weekly analyses run behind
// time-of-day / day-of-week gates and their own existence checks.
const (
	recentHistoryCount = 50
	learnMinRecent     = 10
	learnMinWeek       = 100

	sleepGateStartHour = 6
	sleepGateEndHour   = 7
	SleepWindowHours   = 8

	weeklyGateDay  = time.Sunday
	weeklyGateHour = 10
)

// deviceGates hands out one mutex per device so all pipeline work for a
// device runs single-writer. This closes the check-then-write race on the
// idempotent sleep/weekly computations.
type deviceGates struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (g *deviceGates) acquire(deviceID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.locks == nil {
		g.locks = make(map[string]*sync.Mutex)
	}
	lock, exists := g.locks[deviceID]
	if !exists {
		lock = &sync.Mutex{}
		g.locks[deviceID] = lock
	}
	return lock
}

// AnalysisResult is what the on-demand analysis path returns to callers.
type AnalysisResult struct {
	Assessment *Assessment       `json:"assessment"`
	NextBpm    *float64          `json:"nextBpm,omitempty"`
	NextTemp   *float64          `json:"nextTemp,omitempty"`
	Record     *models.Telemetry `json:"record"`
}

// OnTelemetry handles one record for one device: persist, assess, alert,
// then run the gated periodic analyses. Records for the same device are
// processed strictly one at a time.
func (e *Engine) OnTelemetry(ctx context.Context, deviceID string, rec *models.Telemetry) (*Assessment, error) {
	gate := e.gates.acquire(deviceID)
	gate.Lock()
	defer gate.Unlock()

	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryPipeline),
	)

	now := e.clock()
	if rec.Timestamp == 0 {
		rec.Timestamp = now.UnixMilli()
	}

	// the write path is fail-loud: without the record persisted there is
	// nothing downstream analyses could agree on
	if _, err := e.History.Append(deviceID, rec); err != nil {
		logger.Error("Failed to persist telemetry record",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return nil, err
	}

	prof := e.Profile.Get(deviceID)
	assessment := e.Risk.Assess(deviceID, rec, prof)

	if assessment.IsPhysicalAlert {
		// physical alerts stop the pipeline: no contextual analysis, no
		// learning, no periodic runs for this record
		if err := e.Alert.Dispatch(ctx, deviceID, rec, assessment); err != nil {
			logger.Error("Failed to dispatch physical alert",
				zap.String("device_id", deviceID),
				zap.Error(err))
		}
		return assessment, nil
	}

	recent := e.recentHistory(deviceID)

	e.maybeLearnBaseline(deviceID, len(recent), now)

	if assessment.ShouldNotify() {
		if err := e.Alert.Dispatch(ctx, deviceID, rec, assessment); err != nil {
			logger.Error("Failed to dispatch alert",
				zap.String("device_id", deviceID),
				zap.Error(err))
		}
	}

	logger.Info("Processed telemetry record",
		zap.String("device_id", deviceID),
		zap.Int("risk", assessment.Risk),
		zap.Reflect("next_bpm", e.Risk.PredictNext(recent, "bpm")),
		zap.Reflect("next_temp", e.Risk.PredictNext(recent, "temp")))

	e.maybeAnalyzeSleep(deviceID, rec, now)
	e.maybeAnalyzeWeek(deviceID, now)

	return assessment, nil
}

// recentHistory is fail-open: a store read failure degrades to an empty
// window and the pipeline keeps going.
func (e *Engine) recentHistory(deviceID string) []models.Telemetry {
	recent, err := e.History.LastN(deviceID, recentHistoryCount)
	if err != nil {
		common.GetLoggerWith(
			common.LoggerNameEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryPipeline),
		).Error("Failed to load recent history",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return nil
	}
	return recent
}

func (e *Engine) maybeLearnBaseline(deviceID string, recentCount int, now time.Time) {
	if recentCount <= learnMinRecent || e.roll() >= e.Cfg.LearnProbability {
		return
	}

	logger := common.GetLoggerWith(
		common.LoggerNameEngine,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryPipeline),
	)

	week, err := e.History.Range(deviceID, now.UnixMilli()-RetentionDays*msPerDay, now.UnixMilli())
	if err != nil {
		logger.Error("Failed to load week history for learning",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return
	}
	if len(week) <= learnMinWeek {
		return
	}

	if _, err := e.Baseline.Learn(deviceID, week); err != nil && !errors.Is(err, ErrInsufficientData) {
		logger.Error("Baseline learning failed",
			zap.String("device_id", deviceID),
			zap.Error(err))
	}
}

func (e *Engine) maybeAnalyzeSleep(deviceID string, rec *models.Telemetry, now time.Time) {
	hour := now.In(e.location()).Hour()
	if hour < sleepGateStartHour || hour > sleepGateEndHour || rec.IsResting {
		return
	}
	if _, err := e.Sleep.Analyze(deviceID, now, SleepWindowHours); err != nil && !errors.Is(err, ErrInsufficientData) {
		common.GetLoggerWith(
			common.LoggerNameEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryPipeline),
		).Error("Sleep analysis failed",
			zap.String("device_id", deviceID),
			zap.Error(err))
	}
}

func (e *Engine) maybeAnalyzeWeek(deviceID string, now time.Time) {
	local := now.In(e.location())
	if local.Weekday() != weeklyGateDay || local.Hour() != weeklyGateHour {
		return
	}
	if _, err := e.Trend.AnalyzeWeek(deviceID, local); err != nil {
		common.GetLoggerWith(
			common.LoggerNameEngine,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryPipeline),
		).Error("Weekly trend analysis failed",
			zap.String("device_id", deviceID),
			zap.Error(err))
	}
}

// RunBaselineLearning loads the device's full retention window and learns a
// fresh baseline snapshot from it.
func (e *Engine) RunBaselineLearning(deviceID string) (models.BucketPatterns, error) {
	gate := e.gates.acquire(deviceID)
	gate.Lock()
	defer gate.Unlock()

	now := e.clock()
	week, err := e.History.Range(deviceID, now.UnixMilli()-RetentionDays*msPerDay, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	return e.Baseline.Learn(deviceID, week)
}

// RunSleepAnalysis runs the night-window analysis ending at windowEnd.
func (e *Engine) RunSleepAnalysis(deviceID string, windowEnd time.Time, durationHours int) (*models.SleepSummary, error) {
	gate := e.gates.acquire(deviceID)
	gate.Lock()
	defer gate.Unlock()

	return e.Sleep.Analyze(deviceID, windowEnd, durationHours)
}

// RunWeeklyTrend runs the long-term analysis for the week containing asOf.
func (e *Engine) RunWeeklyTrend(deviceID string, asOf time.Time) (*models.WeeklyReport, error) {
	gate := e.gates.acquire(deviceID)
	gate.Lock()
	defer gate.Unlock()

	return e.Trend.AnalyzeWeek(deviceID, asOf)
}

// AnalyzeNow evaluates the device's most recent record on demand. On this
// path a risk score at or above NotifyRiskFloor also triggers notification,
// even without reason strings.
func (e *Engine) AnalyzeNow(ctx context.Context, deviceID string) (*AnalysisResult, error) {
	gate := e.gates.acquire(deviceID)
	gate.Lock()
	defer gate.Unlock()

	recent, err := e.History.LastN(deviceID, recentHistoryCount)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, ErrInsufficientData
	}

	latest := &recent[len(recent)-1]
	prof := e.Profile.Get(deviceID)
	assessment := e.Risk.Assess(deviceID, latest, prof)

	if assessment.ShouldNotify() || assessment.Risk >= NotifyRiskFloor {
		if err := e.Alert.Dispatch(ctx, deviceID, latest, assessment); err != nil {
			common.GetLoggerWith(
				common.LoggerNameEngine,
				zap.String(common.LoggerFieldCategory, common.LoggerCategoryPipeline),
			).Error("Failed to dispatch alert",
				zap.String("device_id", deviceID),
				zap.Error(err))
		}
	}

	return &AnalysisResult{
		Assessment: assessment,
		NextBpm:    e.Risk.PredictNext(recent, "bpm"),
		NextTemp:   e.Risk.PredictNext(recent, "temp"),
		Record:     latest,
	}, nil
}
