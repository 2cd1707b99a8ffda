package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Serp     *serpConfig
	LLM      *llmConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"articles"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"ARTICLE_ENGINE_ADDRESS" default:":8080"`
	MetricsAddress string `envconfig:"ARTICLE_ENGINE_METRICS_ADDRESS" default:":8081"`
	BaseUrl        string `envconfig:"ARTICLE_ENGINE_BASE_URL" default:"http://localhost:8080"`
	LogLevel       string `envconfig:"ARTICLE_ENGINE_LOG_LEVEL" default:"info"`
}

type serpConfig struct {
	BaseUrl     string `envconfig:"ARTICLE_ENGINE_SERP_URL" default:"https://serpapi.com/search"`
	ApiKey      string `envconfig:"ARTICLE_ENGINE_SERP_API_KEY" default:""`
	ResultCount int    `envconfig:"ARTICLE_ENGINE_SERP_RESULT_COUNT" default:"10"`
}

type llmConfig struct {
	BaseUrl string `envconfig:"ARTICLE_ENGINE_LLM_URL" default:"https://api.openai.com/v1"`
	ApiKey  string `envconfig:"ARTICLE_ENGINE_LLM_API_KEY" default:""`
	Model   string `envconfig:"ARTICLE_ENGINE_LLM_MODEL" default:"gpt-4o-mini"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
