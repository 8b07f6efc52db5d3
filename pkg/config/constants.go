package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "AGENTMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "AGENTMART_DB_DSN"
	EnvDBHost = "AGENTMART_DB_HOST"
	EnvDBUser = "AGENTMART_DB_USER"
	EnvDBName = "AGENTMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
