package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyHealthDBType string = "HEALTH_DB_TYPE"
	EnvKeyHealthDbPath string = "HEALTH_DB_PATH"

	EnvKeyHealthHttpHostPort string = "HEALTH_HTTP_HOST_PORT"

	EnvKeyHealthRedisAddr     string = "HEALTH_REDIS_ADDR"
	EnvKeyHealthLiveAlertTTL  string = "HEALTH_LIVE_ALERT_TTL_MINUTES"
	EnvKeyHealthWebhookTmoSec string = "HEALTH_WEBHOOK_TIMEOUT_SECONDS"

	EnvKeyHealthDefaultRate  string = "HEALTH_DEFAULT_RATE"
	EnvKeyHealthDefaultBurst string = "HEALTH_DEFAULT_BURST"

	EnvKeyHealthLearnProbability string = "HEALTH_LEARN_PROBABILITY"

	LoggerNameEngine        string = "analytics_engine"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameLiveStore     string = "live_store"
	LoggerNameNotifier      string = "notifier"

	LoggerFieldCategory    string = "category"
	LoggerCategoryHistory  string = "history"
	LoggerCategoryBaseline string = "baseline"
	LoggerCategoryRisk     string = "risk"
	LoggerCategorySleep    string = "sleep"
	LoggerCategoryTrend    string = "trend"
	LoggerCategoryAlert    string = "alert"
	LoggerCategoryProfile  string = "profile"
	LoggerCategoryPipeline string = "pipeline"
)
