package analytics

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"healthsense.dev/telemetry-analytics/pkg/db"
	"healthsense.dev/telemetry-analytics/pkg/live"
	"healthsense.dev/telemetry-analytics/pkg/models"
	"healthsense.dev/telemetry-analytics/pkg/notify"
)

// ErrInsufficientData is the defined "no result" outcome for analyses that
// need a minimum number of samples. It is not a failure; callers are
// expected to check for it with errors.Is.
var ErrInsufficientData = errors.New("insufficient data")

type IHistory interface {
	Append(deviceID string, rec *models.Telemetry) (int64, error)
	Range(deviceID string, start, end int64) ([]models.Telemetry, error)
	LastN(deviceID string, n int) ([]models.Telemetry, error)
}

type IBaseline interface {
	Learn(deviceID string, history []models.Telemetry) (models.BucketPatterns, error)
	Current(deviceID string) (models.BucketPatterns, error)
	Previous(deviceID string) (models.BucketPatterns, error)
	Rotate(deviceID string) error
}

type IRisk interface {
	Assess(deviceID string, rec *models.Telemetry, prof *models.Profile) *Assessment
	PredictNext(history []models.Telemetry, metric string) *float64
}

type ISleep interface {
	Analyze(deviceID string, windowEnd time.Time, durationHours int) (*models.SleepSummary, error)
}

type ITrend interface {
	AnalyzeWeek(deviceID string, asOf time.Time) (*models.WeeklyReport, error)
}

type IAlert interface {
	Dispatch(ctx context.Context, deviceID string, rec *models.Telemetry, assessment *Assessment) error
	DeviceAlerts(deviceID string) ([]models.Alert, error)
}

type IProfile interface {
	Upsert(deviceID string, input *models.Profile) error
	Get(deviceID string) *models.Profile
}

// Assessment is the transient output of one risk evaluation. It is only
// persisted indirectly, as an alert record, when the alert decision fires.
type Assessment struct {
	Risk            int      `json:"risk"`
	Alerts          []string `json:"alerts"`
	IsPhysicalAlert bool     `json:"isPhysicalAlert"`
}

// Defaults are the fallback values used when a device has no stored profile
// or baseline. Kept in config so they are testable in one place instead of
// being inline literals.
type Defaults struct {
	Age    int
	AvgBpm float64
}

type Config struct {
	Defaults         Defaults
	LearnProbability float64
	Location         *time.Location
}

func DefaultConfig() Config {
	return Config{
		Defaults:         Defaults{Age: 30, AvgBpm: 80},
		LearnProbability: 0.1,
		Location:         time.Local,
	}
}

type Engine struct {
	Db       db.DB
	Cfg      Config
	Live     *live.Store
	Notifier notify.Notifier

	History  IHistory
	Baseline IBaseline
	Risk     IRisk
	Sleep    ISleep
	Trend    ITrend
	Alert    IAlert
	Profile  IProfile

	gates deviceGates

	// overridable in tests
	now    func() time.Time
	chance func() float64
}

type ServiceOpts struct {
	History  IHistory
	Baseline IBaseline
	Risk     IRisk
	Sleep    ISleep
	Trend    ITrend
	Alert    IAlert
	Profile  IProfile
}

func (e *Engine) WithServices(opts ServiceOpts) *Engine {
	if opts.History != nil {
		e.History = opts.History
	}
	if opts.Baseline != nil {
		e.Baseline = opts.Baseline
	}
	if opts.Risk != nil {
		e.Risk = opts.Risk
	}
	if opts.Sleep != nil {
		e.Sleep = opts.Sleep
	}
	if opts.Trend != nil {
		e.Trend = opts.Trend
	}
	if opts.Alert != nil {
		e.Alert = opts.Alert
	}
	if opts.Profile != nil {
		e.Profile = opts.Profile
	}
	return e
}

func (e *Engine) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

func (e *Engine) roll() float64 {
	if e.chance != nil {
		return e.chance()
	}
	return rand.Float64()
}

func (e *Engine) location() *time.Location {
	if e.Cfg.Location != nil {
		return e.Cfg.Location
	}
	return time.Local
}
