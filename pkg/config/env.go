package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MANDIMART_DB_DSN"
	EnvDBHost = "MANDIMART_DB_HOST"
	EnvDBUser = "MANDIMART_DB_USER"
	EnvDBName = "MANDIMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
