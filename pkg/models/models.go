package models

import "time"

type AlertType string

const (
	AlertTypeCritical AlertType = "critical"
	AlertTypeWarning  AlertType = "warning"
)

// Telemetry is one sampled record from a wearable. Metric fields are pointers
// so an absent reading is distinguishable from a zero reading.
type Telemetry struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	DeviceID  string `gorm:"uniqueIndex:idx_device_ts" json:"deviceID"`
	Timestamp int64  `gorm:"uniqueIndex:idx_device_ts" json:"timestamp"` // unix milliseconds

	Bpm       *float64 `json:"bpm,omitempty"`
	Temp      *float64 `json:"temp,omitempty"`
	SpO2      *float64 `json:"spO2,omitempty"`
	Hrv       *float64 `json:"hrv,omitempty"`
	TotalAcc  *float64 `json:"totalAcc,omitempty"`
	IsResting bool     `json:"isResting"`
}

// F is a convenience for building optional metric values.
func F(v float64) *float64 { return &v }

// MetricValue returns the named metric reading, or nil when the record does
// not carry it.
func (t *Telemetry) MetricValue(name string) *float64 {
	switch name {
	case "bpm":
		return t.Bpm
	case "temp":
		return t.Temp
	case "spo2", "spO2":
		return t.SpO2
	case "hrv":
		return t.Hrv
	case "totalAcc":
		return t.TotalAcc
	}
	return nil
}

// Profile holds the per-user context consulted during risk analysis and
// alert delivery. Missing profiles are served default-filled.
type Profile struct {
	DeviceID     string   `gorm:"primaryKey" json:"deviceID"`
	Age          int      `json:"age"`
	WeeklyAvgBpm *float64 `json:"weeklyAvgBpm,omitempty"`
	WebhookURL   string   `json:"webhookURL,omitempty"`
}

// MetricStats is the learned mean/deviation pair for one metric in one
// contextual bucket, rounded to 2 decimals.
type MetricStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// BucketProfile carries stats only for metrics that had enough samples in
// the bucket; the rest stay nil and are omitted from the stored JSON.
type BucketProfile struct {
	Bpm  *MetricStats `json:"bpm,omitempty"`
	Hrv  *MetricStats `json:"hrv,omitempty"`
	Temp *MetricStats `json:"temp,omitempty"`
	SpO2 *MetricStats `json:"spo2,omitempty"`
}

// BucketPatterns maps contextual bucket keys (e.g. Night_Resting_Weekday)
// to their learned profiles.
type BucketPatterns map[string]BucketProfile

type SnapshotKind string

const (
	SnapshotCurrent  SnapshotKind = "current"
	SnapshotPrevious SnapshotKind = "previous"
)

// BaselineSnapshot is a device's full bucket->profile map. Learning replaces
// the current snapshot wholesale; the previous snapshot is rotated weekly.
type BaselineSnapshot struct {
	DeviceID  string         `gorm:"primaryKey"`
	Kind      SnapshotKind   `gorm:"primaryKey;type:varchar(10)"`
	Patterns  BucketPatterns `gorm:"serializer:json"`
	UpdatedAt time.Time
}

// SleepSummary is produced at most once per device per calendar date.
type SleepSummary struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	DeviceID string `gorm:"uniqueIndex:idx_device_date" json:"deviceID"`
	Date     string `gorm:"uniqueIndex:idx_device_date" json:"date"` // YYYY-MM-DD, UTC date of the window end

	TimeInBedMin int     `json:"totalTimeInBedMin"`
	SleepTimeMin int     `json:"totalSleepTimeMin"`
	Efficiency   float64 `json:"efficiency"`
	ApneaIndex   int     `json:"apneaIndex"`

	WakeMin  int `json:"wakeMin"`
	LightMin int `json:"lightMin"`
	DeepMin  int `json:"deepMin"`
	RemMin   int `json:"remMin"`

	MinBPM  float64 `json:"minBPM"`
	AvgHRV  float64 `json:"avgHRV"`
	AvgSpO2 float64 `json:"avgSpO2"`
}

// WeeklyReport is produced at most once per device per ISO week.
type WeeklyReport struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	DeviceID string `gorm:"uniqueIndex:idx_device_week" json:"deviceID"`
	WeekID   string `gorm:"uniqueIndex:idx_device_week" json:"weekId"`

	LongTermRisk int      `json:"longTermRisk"`
	Findings     []string `gorm:"serializer:json" json:"findings"`

	BpmDrift           *float64 `json:"bpmDrift,omitempty"`
	HrvDrift           *float64 `json:"hrvDrift,omitempty"`
	AvgSleepEfficiency *float64 `json:"avgSleepEfficiency,omitempty"`
	AvgDeepMin         *float64 `json:"avgDeepMin,omitempty"`
}

type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	DeviceID  string    `gorm:"index" json:"deviceID"`
	Timestamp time.Time `json:"timestamp"`
	Type      AlertType `gorm:"type:varchar(20);check:type IN ('critical','warning')" json:"type"`
	RiskScore int       `json:"riskScore"`
	Message   string    `json:"message"`
}
