package config

// EnvPrefix scopes every envconfig lookup.
const EnvPrefix = "GREENMANDI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "GREENMANDI_APP_ENV"
	EnvPort                   = "GREENMANDI_APP_PORT"
	EnvRedisURL               = "GREENMANDI_REDIS_URL"
	EnvJWTSecret              = "GREENMANDI_JWT_SECRET"
	EnvJWTIssuer              = "GREENMANDI_JWT_ISSUER"
	EnvJWTExpMins             = "GREENMANDI_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "GREENMANDI_REFRESH_TOKEN_TTL_MINUTES"
)

const (
	EnvDBDSN  = "GREENMANDI_DB_DSN"
	EnvDBHost = "GREENMANDI_DB_HOST"
	EnvDBUser = "GREENMANDI_DB_USER"
	EnvDBName = "GREENMANDI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
