package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds agent configuration loaded from environment variables.
type Config struct {
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8000"`
	UserID     string `envconfig:"USER_ID" required:"true"`
	Email      string `envconfig:"EMAIL"`    // optional: login on first run
	Password   string `envconfig:"PASSWORD"` // optional: login on first run

	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	ChatID   int64  `envconfig:"CHAT_ID" required:"true"`

	DBPath   string `envconfig:"DB_PATH" default:"./data/medimind.db"`
	Timezone string `envconfig:"TIMEZONE" default:"Local"` // IANA name for reminder wall-clock times

	SyncInterval  time.Duration `envconfig:"SYNC_INTERVAL" default:"5m"`
	DebounceDelay time.Duration `envconfig:"DEBOUNCE_DELAY" default:"500ms"`

	CalendarExportPath string `envconfig:"CALENDAR_EXPORT_PATH"` // optional .ics output

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz
}

// Load reads environment variables into Config. A .env file in the working
// directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
