package config

const (
	EnvPrefix = "TASTETRACK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CouponSourceStatic = "static"
	CouponSourceDB     = "db"
)

const (
	EnvAppEnv          = "TASTETRACK_APP_ENV"
	EnvPort            = "TASTETRACK_APP_PORT"
	EnvRedisURL        = "TASTETRACK_REDIS_URL"
	EnvJWTSecret       = "TASTETRACK_JWT_SECRET"
	EnvJWTIssuer       = "TASTETRACK_JWT_ISSUER"
	EnvUpstreamBaseURL = "TASTETRACK_UPSTREAM_BASE_URL"
	EnvUpstreamTimeout = "TASTETRACK_UPSTREAM_TIMEOUT"
	EnvCartTTL         = "TASTETRACK_CART_TTL"
	EnvCouponSource    = "TASTETRACK_COUPON_SOURCE"
	EnvUseSQLite       = "TASTETRACK_USE_SQLITE"
	EnvCORSOrigins     = "TASTETRACK_CORS_ORIGINS"

	EnvDBDSN  = "TASTETRACK_DB_DSN"
	EnvDBHost = "TASTETRACK_DB_HOST"
	EnvDBUser = "TASTETRACK_DB_USER"
	EnvDBName = "TASTETRACK_DB_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
