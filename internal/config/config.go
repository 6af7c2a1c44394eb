package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	SwitchBaseURL string
	SwitchAPIKey  string
	SwitchTimeout time.Duration

	CRCBaseURL  string
	CRCUsername string
	CRCPassword string

	FirstCentralBaseURL  string
	FirstCentralUsername string
	FirstCentralPassword string

	SMSBaseURL string
	SMSAPIKey  string

	DebitRequeryDelay  time.Duration
	CreditRequeryDelay time.Duration
	WorkerPollInterval time.Duration

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getsecs(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "kobolend"),
		MySQLUser: getenv("MYSQL_USER", "kobolend"),
		MySQLPass: getenv("MYSQL_PASS", "kobolend"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		SwitchBaseURL: getenv("SWITCH_BASE_URL", ""),
		SwitchAPIKey:  getenv("SWITCH_API_KEY", ""),
		SwitchTimeout: getsecs("SWITCH_TIMEOUT_SECONDS", 30*time.Second),

		CRCBaseURL:  getenv("CRC_BASE_URL", ""),
		CRCUsername: getenv("CRC_USERNAME", ""),
		CRCPassword: getenv("CRC_PASSWORD", ""),

		FirstCentralBaseURL:  getenv("FIRSTCENTRAL_BASE_URL", ""),
		FirstCentralUsername: getenv("FIRSTCENTRAL_USERNAME", ""),
		FirstCentralPassword: getenv("FIRSTCENTRAL_PASSWORD", ""),

		SMSBaseURL: getenv("SMS_BASE_URL", ""),
		SMSAPIKey:  getenv("SMS_API_KEY", ""),

		DebitRequeryDelay:  getsecs("DEBIT_REQUERY_SECONDS", 300*time.Second),
		CreditRequeryDelay: getsecs("CREDIT_REQUERY_SECONDS", 7200*time.Second),
		WorkerPollInterval: getsecs("WORKER_POLL_SECONDS", 5*time.Second),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.SwitchBaseURL == "" {
		return errors.New("missing SWITCH_BASE_URL")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
