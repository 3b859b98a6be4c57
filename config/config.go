package config

import (
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBUrl            string
	PageSize         int
	StrictValidation bool
	Debug            bool
}

// ParseFlags reads configuration from command-line flags, with defaults
// supplied by the environment (a .env file is honored when present).
func ParseFlags() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("FORMDESK_HOST", "0.0.0.0"), "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", envUintOr("FORMDESK_PORT", 8080), "listen port number (default 8080)")
	flag.StringVar(&cfg.DBUrl, "db-url", envOr("FORMDESK_DB_URL", "formdesk.sqlite"), "path to SQLite3 DB file (default formdesk.sqlite)")
	flag.IntVar(&cfg.PageSize, "page-size", int(envUintOr("FORMDESK_PAGE_SIZE", 5)), "default page size for form listings (default 5)")
	flag.BoolVar(&cfg.StrictValidation, "strict-validation", envBool("FORMDESK_STRICT_VALIDATION"), "enforce min/max/pattern field constraints at submit time")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))

	if cfg.PageSize < 1 {
		cfg.PageSize = 1
	}
	if cfg.PageSize > MaxPageSize {
		cfg.PageSize = MaxPageSize
	}

	return
}

// MaxPageSize caps the pageSize query parameter on listing endpoints.
const MaxPageSize = 50

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envUintOr(key string, fallback uint) uint {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint(n)
		}
	}
	return fallback
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
