// Package config loads the livesite TOML configuration.
//
// The file is decoded over Default so omitted keys keep their default
// values. A list present in the file replaces the default list as a whole.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gabrielmiguelok/livesite/internal/website"
	"github.com/gabrielmiguelok/livesite/pkg/forms"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
	"github.com/gabrielmiguelok/livesite/pkg/navigation"
	"github.com/gabrielmiguelok/livesite/pkg/state"
)

// EnvAPIURL overrides forms.api_url.
const EnvAPIURL = "LIVESITE_API_URL"

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "livesite.toml"

var (
	ErrInvalidAddress  = errors.New("invalid server address")
	ErrInvalidAPIURL   = errors.New("invalid form api url")
	ErrInvalidRate     = errors.New("invalid form rate limit")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrUnknownDriver   = errors.New("unknown store driver")
	ErrMissingPath     = errors.New("store path required")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrNoPages         = errors.New("no pages configured")
	ErrInvalidPagePath = errors.New("page path must start with /")
)

// Duration is a time.Duration written as a string such as "10s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeout, b)
	}
	d.Duration = v
	return nil
}

// Config is the complete configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Forms      FormsConfig      `toml:"forms"`
	Store      StoreConfig      `toml:"store"`
	Log        LogConfig        `toml:"log"`
	Navigation NavigationConfig `toml:"navigation"`
	Robots     RobotsConfig     `toml:"robots"`
	Site       website.Site     `toml:"site"`
}

// ServerConfig configures the live server.
type ServerConfig struct {
	// Address is the listen address.
	Address string `toml:"address"`
	// AllowedOrigins are extra WebSocket origins; same-host is always allowed.
	AllowedOrigins []string `toml:"allowed_origins"`
	// Dev relaxes timeouts and origin checks.
	Dev bool `toml:"dev"`
	// SessionIdle closes sockets silent for longer than this.
	SessionIdle Duration `toml:"session_idle"`
}

// FormsConfig configures the form API client.
type FormsConfig struct {
	APIURL        string   `toml:"api_url"`
	Timeout       Duration `toml:"timeout"`
	RatePerMinute int      `toml:"rate_per_minute"`
	Burst         int      `toml:"burst"`
}

// StoreConfig selects the preference store.
type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// NavigationConfig tunes the href classifier.
type NavigationConfig struct {
	// TLDs replaces the top-level domains that mark a bare host as external.
	TLDs []string `toml:"tlds"`
}

// RobotsConfig controls the exported robots.txt.
type RobotsConfig struct {
	Disallow []string `toml:"disallow"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:     "127.0.0.1:3000",
			SessionIdle: Duration{30 * time.Minute},
		},
		Forms: FormsConfig{
			APIURL:        forms.DefaultAPIURL,
			Timeout:       Duration{10 * time.Second},
			RatePerMinute: 10,
			Burst:         3,
		},
		Store: StoreConfig{
			Driver: state.DriverMemory,
		},
		Log: LogConfig{
			Level: "info",
		},
		Navigation: NavigationConfig{
			TLDs: append([]string(nil), navigation.DefaultTLDs...),
		},
		Site: website.DefaultSite(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path, or DefaultPath when it does not
// exist, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.Decode(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// listPaths are the list keys whose defaults are dropped when the file sets
// them.
var listPaths = []struct {
	keys  []string
	reset func(*Config)
}{
	{[]string{"server", "allowed_origins"}, func(c *Config) { c.Server.AllowedOrigins = nil }},
	{[]string{"navigation", "tlds"}, func(c *Config) { c.Navigation.TLDs = nil }},
	{[]string{"robots", "disallow"}, func(c *Config) { c.Robots.Disallow = nil }},
	{[]string{"site", "page", "keywords"}, func(c *Config) { c.Site.Page.Keywords = nil }},
	{[]string{"site", "navigation", "items"}, func(c *Config) { c.Site.Navigation.Items = nil }},
	{[]string{"site", "hero", "features"}, func(c *Config) { c.Site.Hero.Features = nil }},
	{[]string{"site", "pricing", "plans"}, func(c *Config) { c.Site.Pricing.Plans = nil }},
	{[]string{"site", "contact", "fields"}, func(c *Config) { c.Site.Contact.Fields = nil }},
	{[]string{"site", "footer", "company_links"}, func(c *Config) { c.Site.Footer.CompanyLinks = nil }},
	{[]string{"site", "footer", "legal_links"}, func(c *Config) { c.Site.Footer.LegalLinks = nil }},
	{[]string{"site", "footer", "social_links"}, func(c *Config) { c.Site.Footer.SocialLinks = nil }},
	{[]string{"site", "pages"}, func(c *Config) { c.Site.Pages = nil }},
}

// Decode merges a TOML document into c.
func (c *Config) Decode(data []byte) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, lp := range listPaths {
		if has(raw, lp.keys...) {
			lp.reset(c)
		}
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

func has(m map[string]any, keys ...string) bool {
	for i, k := range keys {
		v, ok := m[k]
		if !ok {
			return false
		}
		if i == len(keys)-1 {
			return true
		}
		if m, ok = v.(map[string]any); !ok {
			return false
		}
	}
	return false
}

// ApplyEnv applies environment overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		c.Forms.APIURL = v
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if _, port, err := net.SplitHostPort(c.Server.Address); err != nil || port == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidAddress, c.Server.Address))
	}

	if u, err := url.Parse(c.Forms.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidAPIURL, c.Forms.APIURL))
	}
	if c.Forms.RatePerMinute < 0 || c.Forms.Burst < 0 {
		errs = append(errs, fmt.Errorf("%w: %d/min burst %d", ErrInvalidRate, c.Forms.RatePerMinute, c.Forms.Burst))
	}
	if c.Forms.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: forms.timeout %s", ErrInvalidTimeout, c.Forms.Timeout))
	}
	if c.Server.SessionIdle.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: server.session_idle %s", ErrInvalidTimeout, c.Server.SessionIdle))
	}

	switch c.Store.Driver {
	case state.DriverMemory:
	case state.DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			errs = append(errs, ErrMissingPath)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Store.Driver))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level))
	}

	if len(c.Site.Pages) == 0 {
		errs = append(errs, ErrNoPages)
	}
	for _, p := range c.Site.Pages {
		if !strings.HasPrefix(p.Path, "/") {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPagePath, p.Path))
		}
	}

	return errors.Join(errs...)
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Logger builds the logger described by the [log] table.
func (c *Config) Logger() *logging.SlogLogger {
	opts := []logging.LoggerOption{logging.WithLevel(logging.ParseLevel(c.Log.Level))}
	if c.Log.JSON {
		opts = append(opts, logging.WithJSON())
	}
	return logging.NewSlogLogger(opts...)
}

// Classifier builds the href classifier for [navigation].
func (c *Config) Classifier() *navigation.Classifier {
	return navigation.NewClassifier(c.Navigation.TLDs...)
}
