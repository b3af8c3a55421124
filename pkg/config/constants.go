package config

// EnvPrefix is passed to envconfig; each field carries its fully
// qualified variable name, so no additional prefixing happens.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SWIFTSHOP_DB_DSN"
	EnvDBHost = "SWIFTSHOP_DB_HOST"
	EnvDBUser = "SWIFTSHOP_DB_USER"
	EnvDBName = "SWIFTSHOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
