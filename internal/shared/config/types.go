package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// IsSQLite reports whether the sqlite driver is configured.
func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite"
}

func (d *DatabaseConfig) GetDSN() string {
	if d.IsSQLite() {
		return d.SQLitePath
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	AdminAddress string `mapstructure:"admin_address"`
}

type RedisConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	LockTTLSeconds int    `mapstructure:"lock_ttl_seconds"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig budgets authenticated fresh-swap traffic per subject.
// Zero disables a window.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour"`
}

// RequestWindowConfig is the weekday range in which fresh-swap requests are accepted.
// Weekdays use 0=Sunday..6=Saturday.
type RequestWindowConfig struct {
	StartDay  int `mapstructure:"start_day"`
	EndDay    int `mapstructure:"end_day"`
	EndHour   int `mapstructure:"end_hour"`
	EndMinute int `mapstructure:"end_minute"`
}

type ReplacementConfig struct {
	MonthlyCap int                 `mapstructure:"monthly_cap"`
	Window     RequestWindowConfig `mapstructure:"window"`
}

type OrderCutoffConfig struct {
	Day    int `mapstructure:"day"`
	Hour   int `mapstructure:"hour"`
	Minute int `mapstructure:"minute"`
}

type CycleConfig struct {
	OrderCutoff OrderCutoffConfig `mapstructure:"order_cutoff"`
	HarvestDay  string            `mapstructure:"harvest_day"`
	DeliveryDay string            `mapstructure:"delivery_day"`
}
