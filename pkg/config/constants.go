package config

const (
	EnvPrefix = "HOTEL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv     = "HOTEL_APP_ENV"
	EnvPort       = "HOTEL_APP_PORT"
	EnvDBDSN      = "HOTEL_DB_DSN"
	EnvDBHost     = "HOTEL_DB_HOST"
	EnvDBUser     = "HOTEL_DB_USER"
	EnvDBName     = "HOTEL_DB_NAME"
	EnvUseSQLite  = "HOTEL_USE_SQLITE"
	EnvRedisURL   = "HOTEL_REDIS_URL"
	EnvJWTSecret  = "HOTEL_JWT_SECRET"
	EnvJWTIssuer  = "HOTEL_JWT_ISSUER"
	EnvJWTExpMins = "HOTEL_JWT_EXPIRATION_MINUTES"
	EnvCORS       = "HOTEL_CORS_ORIGINS"
	EnvSendgrid   = "HOTEL_SENDGRID_API_KEY"
	EnvPushAppID  = "HOTEL_ONESIGNAL_APP_ID"
	EnvPushAPIKey = "HOTEL_ONESIGNAL_REST_API_KEY"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
