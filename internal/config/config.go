package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env     string `yaml:"app_env"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr            string `yaml:"addr"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
		// MaxBodyBytes acota POST /authorization, /token, etc.
		MaxBodyBytes int64 `yaml:"max_body_bytes"`
		// TrustedProxies: IPs o CIDRs cuyo X-Forwarded-For se acepta.
		// Vacío: rate limit y logs usan siempre la IP del peer TCP.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// Servicio externo de decisión (API estilo Authlete).
	Decision struct {
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"decision"`

	Session struct {
		CookieName string `yaml:"cookie_name"`
		Secret     string `yaml:"secret"`
		TTL        string `yaml:"ttl"`
		Secure     bool   `yaml:"secure"`
		SameSite   string `yaml:"samesite"`
	} `yaml:"session"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Directory struct {
		Driver   string `yaml:"driver"` // memory | postgres
		DSN      string `yaml:"dsn"`
		SeedFile string `yaml:"seed_file"`
		Postgres struct {
			MaxConns int `yaml:"max_conns"`
			MinConns int `yaml:"min_conns"`
		} `yaml:"postgres"`
	} `yaml:"directory"`

	Rate struct {
		Enabled     bool   `yaml:"enabled"`
		Window      string `yaml:"window"`
		MaxRequests int    `yaml:"max_requests"`
		// Límite específico para POST /authorization/decision (fuerza bruta de credenciales).
		Decision struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"decision"`
	} `yaml:"rate"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`

	OIDC struct {
		// TTL del cache de JWKS y discovery.
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"oidc"`
}

// Load lee el YAML, aplica defaults y overrides de entorno.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c, nil
}

// LoadOrDefault es como Load pero sin archivo devuelve defaults + env.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	var c Config
	c.applyDefaults()
	c.applyEnvOverrides()
	return &c, nil
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 64 << 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Decision.Timeout == "" {
		c.Decision.Timeout = "10s"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "authz_session"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "30m"
	}
	if c.Session.SameSite == "" {
		c.Session.SameSite = "lax"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "authz"
	}
	if c.Directory.Driver == "" {
		c.Directory.Driver = "memory"
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 60
	}
	if c.Rate.Decision.Limit == 0 {
		c.Rate.Decision.Limit = 10
	}
	if c.Rate.Decision.Window == "" {
		c.Rate.Decision.Window = "1m"
	}
	if c.OIDC.CacheTTL == "" {
		c.OIDC.CacheTTL = "5m"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_VERSION"); ok {
		c.App.Version = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvDur("SERVER_READ_TIMEOUT"); ok {
		c.Server.ReadTimeout = v.String()
	}
	if v, ok := getEnvDur("SERVER_WRITE_TIMEOUT"); ok {
		c.Server.WriteTimeout = v.String()
	}
	if v, ok := getEnvDur("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v.String()
	}
	if v, ok := getEnvInt("SERVER_MAX_BODY_BYTES"); ok {
		c.Server.MaxBodyBytes = int64(v)
	}
	if v, ok := getEnvStr("SERVER_TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = splitList(v)
	}

	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}

	// DECISION
	if v, ok := getEnvStr("DECISION_BASE_URL"); ok {
		c.Decision.BaseURL = v
	}
	if v, ok := getEnvStr("DECISION_API_KEY"); ok {
		c.Decision.APIKey = v
	}
	if v, ok := getEnvStr("DECISION_API_SECRET"); ok {
		c.Decision.APISecret = v
	}
	if v, ok := getEnvDur("DECISION_TIMEOUT"); ok {
		c.Decision.Timeout = v.String()
	}

	// SESSION
	if v, ok := getEnvStr("SESSION_COOKIE_NAME"); ok {
		c.Session.CookieName = v
	}
	if v, ok := getEnvStr("SESSION_SECRET"); ok {
		c.Session.Secret = v
	}
	if v, ok := getEnvDur("SESSION_TTL"); ok {
		c.Session.TTL = v.String()
	}
	if v, ok := getEnvBool("SESSION_SECURE"); ok {
		c.Session.Secure = v
	}
	if v, ok := getEnvStr("SESSION_SAMESITE"); ok {
		c.Session.SameSite = strings.ToLower(v)
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// DIRECTORY
	if v, ok := getEnvStr("DIRECTORY_DRIVER"); ok {
		c.Directory.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("DIRECTORY_DSN"); ok {
		c.Directory.DSN = v
	}
	if v, ok := getEnvStr("DIRECTORY_SEED_FILE"); ok {
		c.Directory.SeedFile = v
	}
	if v, ok := getEnvInt("DIRECTORY_PG_MAX_CONNS"); ok {
		c.Directory.Postgres.MaxConns = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvDur("RATE_WINDOW"); ok {
		c.Rate.Window = v.String()
	}
	if v, ok := getEnvInt("RATE_MAX_REQUESTS"); ok {
		c.Rate.MaxRequests = v
	}
	if v, ok := getEnvInt("RATE_DECISION_LIMIT"); ok {
		c.Rate.Decision.Limit = v
	}
	if v, ok := getEnvDur("RATE_DECISION_WINDOW"); ok {
		c.Rate.Decision.Window = v.String()
	}

	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
	if v, ok := getEnvDur("OIDC_CACHE_TTL"); ok {
		c.OIDC.CacheTTL = v.String()
	}
}

// Validate verifica los valores críticos. En prod exige secreto de sesión
// fuerte y cookie Secure.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Decision.BaseURL) == "" {
		errs = append(errs, errors.New("decision.base_url is required"))
	}
	for name, v := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"decision.timeout":        c.Decision.Timeout,
		"session.ttl":             c.Session.TTL,
		"rate.window":             c.Rate.Window,
		"rate.decision.window":    c.Rate.Decision.Window,
		"oidc.cache_ttl":          c.OIDC.CacheTTL,
	} {
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", name, v))
		}
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required when cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind: unknown %q", c.Cache.Kind))
	}
	switch c.Directory.Driver {
	case "memory":
	case "postgres":
		if c.Directory.DSN == "" {
			errs = append(errs, errors.New("directory.dsn is required when directory.driver=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("directory.driver: unknown %q", c.Directory.Driver))
	}
	if _, ok := sameSiteModes[c.Session.SameSite]; !ok {
		errs = append(errs, fmt.Errorf("session.samesite: unknown %q", c.Session.SameSite))
	}
	if c.App.Env == "prod" {
		if len(c.Session.Secret) < 32 {
			errs = append(errs, errors.New("session.secret must be at least 32 bytes in prod"))
		}
		if !c.Session.Secure {
			errs = append(errs, errors.New("session.secure must be true in prod"))
		}
	}
	return errors.Join(errs...)
}

var sameSiteModes = map[string]http.SameSite{
	"lax":    http.SameSiteLaxMode,
	"strict": http.SameSiteStrictMode,
	"none":   http.SameSiteNoneMode,
}

// SameSiteMode traduce session.samesite. Desconocido → Lax.
func (c *Config) SameSiteMode() http.SameSite {
	if m, ok := sameSiteModes[c.Session.SameSite]; ok {
		return m
	}
	return http.SameSiteLaxMode
}

// Dur parsea una duración ya validada; ante error devuelve def.
func Dur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
