package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Prefixo das variáveis de ambiente: CRM_PORT, CRM_DB_DSN, ...
const envPrefix = "crm"

type Config struct {
	Port           string   `envconfig:"port" default:"8080"`
	AllowedOrigins []string `envconfig:"allowed_origins" default:"http://localhost:3000"`
	LogLevel       string   `envconfig:"log_level" default:"info"`

	DBDriver string `envconfig:"db_driver" default:"postgres"`
	DBDSN    string `envconfig:"db_dsn" required:"true"`

	// Vazio = sem eventos (roda sem RabbitMQ)
	RabbitMQURL string `envconfig:"rabbitmq_url"`

	SMTPHost     string   `envconfig:"smtp_host"`
	SMTPPort     int      `envconfig:"smtp_port" default:"587"`
	SMTPUser     string   `envconfig:"smtp_user"`
	SMTPPassword string   `envconfig:"smtp_password"`
	MailFrom     string   `envconfig:"mail_from" default:"nao-responda@crm.local"`
	OperatorsTo  []string `envconfig:"operators_to"`
	BoardURL     string   `envconfig:"board_url"`

	CreateRateLimit int           `envconfig:"create_rate_limit" default:"30"` // req/min por IP
	CacheTTL        time.Duration `envconfig:"cache_ttl" default:"1m"`

	// Ligar só atrás de proxy reverso que reescreve X-Forwarded-For.
	TrustProxyHeaders bool `envconfig:"trust_proxy_headers" default:"false"`

	SweepInterval time.Duration `envconfig:"sweep_interval" default:"10m"`
	StaleAfter    time.Duration `envconfig:"stale_after" default:"0"`

	ThemeDarkMode string `envconfig:"theme_dark_mode"`
}

// NewLoadedConfig lê o .env (se existir) e depois o ambiente.
func NewLoadedConfig(envFiles ...string) (*Config, error) {
	// .env ausente não é erro; o ambiente pode bastar
	_ = godotenv.Load(envFiles...)

	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite3":
	default:
		return errors.Errorf("CRM_DB_DRIVER inválido: %q (use postgres ou sqlite3)", c.DBDriver)
	}
	if c.CreateRateLimit <= 0 {
		return errors.New("CRM_CREATE_RATE_LIMIT deve ser positivo")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CRM_CACHE_TTL deve ser positivo")
	}
	if c.StaleAfter < 0 {
		return errors.New("CRM_STALE_AFTER não pode ser negativo")
	}
	if c.StaleAfter > 0 && c.SweepInterval <= 0 {
		return errors.New("CRM_SWEEP_INTERVAL deve ser positivo quando CRM_STALE_AFTER está ativo")
	}
	return nil
}

// MailEnabled indica se há SMTP e destinatários para avisos de handoff.
func (c *Config) MailEnabled() bool {
	return strings.TrimSpace(c.SMTPHost) != "" && len(c.OperatorsTo) > 0
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
