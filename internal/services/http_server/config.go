package http_server

type Config struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port" validate:"gte=0,lte=65535"`
	MetricsAuthToken string `yaml:"metrics_auth_token"`
}
