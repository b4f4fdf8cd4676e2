package config

const (
	EnvPrefix = "BRIGHTLOOM"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BRIGHTLOOM_DB_DSN"
	EnvDBHost = "BRIGHTLOOM_DB_HOST"
	EnvDBUser = "BRIGHTLOOM_DB_USER"
	EnvDBName = "BRIGHTLOOM_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
