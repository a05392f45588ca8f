package config

// EnvPrefix is the envconfig prefix shared by every config struct.
const EnvPrefix = "ftt"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FTT_DB_DSN"
	EnvDBHost = "FTT_DB_HOST"
	EnvDBUser = "FTT_DB_USER"
	EnvDBName = "FTT_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
