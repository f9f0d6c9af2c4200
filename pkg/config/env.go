package config

// EnvPrefix scopes every environment variable this service reads.
const EnvPrefix = "HALISI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "HALISI_APP_ENV"
	EnvPort       = "HALISI_APP_PORT"
	EnvRedisURL   = "HALISI_REDIS_URL"
	EnvJWTSecret  = "HALISI_JWT_SECRET"
	EnvJWTIssuer  = "HALISI_JWT_ISSUER"
	EnvJWTExpMins = "HALISI_JWT_EXPIRATION_MINUTES"

	EnvDBDSN  = "HALISI_DB_DSN"
	EnvDBHost = "HALISI_DB_HOST"
	EnvDBUser = "HALISI_DB_USER"
	EnvDBName = "HALISI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
