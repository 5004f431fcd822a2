package analytics_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"healthsense.dev/telemetry-analytics/pkg/analytics"
	"healthsense.dev/telemetry-analytics/pkg/analytics/mocks"
	"healthsense.dev/telemetry-analytics/pkg/db"
	"healthsense.dev/telemetry-analytics/pkg/notify"
)

type EngineMocks struct {
	History  *mocks.MockIHistory
	Baseline *mocks.MockIBaseline
	Risk     *mocks.MockIRisk
	Sleep    *mocks.MockISleep
	Trend    *mocks.MockITrend
	Alert    *mocks.MockIAlert
	Profile  *mocks.MockIProfile
}

// GetMockEngineWithMemorySqliteDialector builds an engine backed by the
// in-memory sqlite instance with all real services wired, plus one mock per
// service. Tests swap a mock in by assigning the engine field, e.g.
// engine.Alert = em.Alert.
func GetMockEngineWithMemorySqliteDialector(t *testing.T) (
	*gomock.Controller,
	*analytics.Engine,
	*EngineMocks,
) {
	ctrl := gomock.NewController(t)

	em := &EngineMocks{
		History:  mocks.NewMockIHistory(ctrl),
		Baseline: mocks.NewMockIBaseline(ctrl),
		Risk:     mocks.NewMockIRisk(ctrl),
		Sleep:    mocks.NewMockISleep(ctrl),
		Trend:    mocks.NewMockITrend(ctrl),
		Alert:    mocks.NewMockIAlert(ctrl),
		Profile:  mocks.NewMockIProfile(ctrl),
	}

	cfg := analytics.DefaultConfig()
	cfg.Location = time.UTC

	engine := &analytics.Engine{
		Db:  *db.GetInstance(db.UseMemorySqliteDialector()),
		Cfg: cfg,
	}
	engine.WithServices(analytics.ServiceOpts{
		History:  engine.GetIHistory(),
		Baseline: engine.GetIBaseline(),
		Risk:     engine.GetIRisk(),
		Sleep:    engine.GetISleep(),
		Trend:    engine.GetITrend(),
		Alert:    engine.GetIAlert(),
		Profile:  engine.GetIProfile(),
	})

	return ctrl, engine, em
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

// fakeNotifier records every payload it is handed and fails on demand.
type fakeNotifier struct {
	payloads []*notify.Payload
	err      error
}

func (f *fakeNotifier) Send(_ context.Context, payload *notify.Payload) error {
	f.payloads = append(f.payloads, payload)
	return f.err
}
