package config

const (
	EnvPrefix = "RETAIL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"

	devSecretKey = "change-me-in-production"
)

const (
	EnvAppEnv   = "RETAIL_APP_ENV"
	EnvAppName  = "RETAIL_APP_NAME"
	EnvHost     = "RETAIL_APP_HOST"
	EnvPort     = "RETAIL_APP_PORT"
	EnvLogLevel = "RETAIL_LOG_LEVEL"

	EnvDBDriver = "RETAIL_DB_DRIVER"
	EnvDBDSN    = "RETAIL_DB_DSN"
	EnvDBEcho   = "RETAIL_DB_ECHO"

	EnvDefaultPageSize = "RETAIL_DEFAULT_PAGE_SIZE"
	EnvMaxPageSize     = "RETAIL_MAX_PAGE_SIZE"

	EnvCORSOrigins = "RETAIL_CORS_ORIGINS"
	EnvAutoMigrate = "RETAIL_AUTO_MIGRATE"

	EnvSecretKey  = "RETAIL_SECRET_KEY"
	EnvSessionTTL = "RETAIL_SESSION_TTL"

	EnvInstallerDir = "RETAIL_INSTALLER_DIR"
	EnvRedisURL     = "RETAIL_REDIS_URL"
	EnvGitHubToken  = "GITHUB_TOKEN"
)
