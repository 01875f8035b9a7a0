package config

const (
	EnvPrefix = "CELEBRE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
