package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"healthsense.dev/telemetry-analytics/pkg/analytics"
	"healthsense.dev/telemetry-analytics/pkg/common"
	"healthsense.dev/telemetry-analytics/pkg/db"
	healthHttp "healthsense.dev/telemetry-analytics/pkg/http"
	"healthsense.dev/telemetry-analytics/pkg/live"
	"healthsense.dev/telemetry-analytics/pkg/notify"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	healthDbType := os.Getenv(common.EnvKeyHealthDBType)
	switch healthDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown HEALTH_DB_TYPE: " + healthDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyHealthHttpHostPort))
	redisAddr := strings.TrimSpace(os.Getenv(common.EnvKeyHealthRedisAddr))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyHealthDefaultRate), 64); err != nil {
		log.Fatal("Invalid HEALTH_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyHealthDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid HEALTH_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	cfg := analytics.DefaultConfig()
	if raw := strings.TrimSpace(os.Getenv(common.EnvKeyHealthLearnProbability)); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 || p > 1 {
			log.Fatal("Invalid HEALTH_LEARN_PROBABILITY, should be a float64 in [0, 1]")
		}
		cfg.LearnProbability = p
	}

	engine := analytics.Engine{
		Db:  *dbInstance,
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

	if redisAddr != "" {
		ttl := live.DefaultTTL
		if raw := strings.TrimSpace(os.Getenv(common.EnvKeyHealthLiveAlertTTL)); raw != "" {
			minutes, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || minutes <= 0 {
				log.Fatal("Invalid HEALTH_LIVE_ALERT_TTL_MINUTES, should be a positive int")
			}
			ttl = time.Duration(minutes) * time.Minute
		}
		engine.Live = live.NewStore(redis.NewClient(&redis.Options{Addr: redisAddr}), ttl)
		logger.Info("Live alert store connected", zap.String("redis_addr", redisAddr))
	} else {
		logger.Warn("HEALTH_REDIS_ADDR not set, live alerts disabled")
	}

	webhookTimeout := time.Duration(0)
	if raw := strings.TrimSpace(os.Getenv(common.EnvKeyHealthWebhookTmoSec)); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seconds <= 0 {
			log.Fatal("Invalid HEALTH_WEBHOOK_TIMEOUT_SECONDS, should be a positive int")
		}
		webhookTimeout = time.Duration(seconds) * time.Second
	}
	engine.Notifier = notify.NewWebhook(webhookTimeout)

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &healthHttp.RestfulServer{
		Server:           gin.Default(),
		Engine:           &engine,
		RateLimiterStore: analytics.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
