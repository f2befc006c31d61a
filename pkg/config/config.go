// Package config resolves allergy settings from a .allergy.yaml file, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood in the config file. Environment variables use the ALLERGY_
// prefix with dots replaced by underscores, e.g. ALLERGY_LOG_LEVEL.
const (
	KeyServer       = "server"
	KeyCSRFToken    = "csrf_token"
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeySession      = "session_cookie"
	KeySettleDelay  = "settle_delay"
	KeyDiscardStale = "discard_stale"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
	KeyDevAddr      = "devserver.addr"
	KeyDevPath      = "devserver.path"
	KeyDevLegacy    = "devserver.legacy_text"
	KeyDevToken     = "devserver.csrf_token"
)

// Config is the resolved configuration.
type Config struct {
	Server    string `json:"server"`
	CSRFToken string `json:"csrfToken,omitempty"`

	// Username and Password log in through the server's login form.
	Username string `json:"username,omitempty"`
	Password string `json:"-"`

	// SessionCookie reuses the sessionid of a logged in browser instead.
	SessionCookie string `json:"-"`

	SettleDelay  time.Duration `json:"settleDelay"`
	DiscardStale bool          `json:"discardStale"`
	Log          Log           `json:"log"`
	DevServer    DevServer     `json:"devserver"`
	// File is the config file that was read, if any.
	File string `json:"file,omitempty"`
}

// Log configures logging.
type Log struct {
	Level string `json:"level"`
	File  string `json:"file,omitempty"`
}

// DevServer configures the local stub server.
type DevServer struct {
	Addr       string `json:"addr"`
	Path       string `json:"path"`
	LegacyText bool   `json:"legacyText"`
	CSRFToken  string `json:"csrfToken"`
}

// BasePath is where the stub server keeps its records.
func (d DevServer) BasePath() string {
	return d.Path
}

// Loader reads configuration. Each Loader owns its own viper instance.
type Loader struct {
	v *viper.Viper
}

// NewLoader sets up defaults and search paths: $ALLERGY_CONFIG_PATH, the
// working directory and the home directory, in that order.
func NewLoader() *Loader {
	v := viper.New()
	v.SetDefault(KeyServer, "http://127.0.0.1:8000")
	v.SetDefault(KeySettleDelay, 50*time.Millisecond)
	v.SetDefault(KeyDiscardStale, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDevAddr, "127.0.0.1:8000")
	v.SetDefault(KeyDevPath, "~/.allergy.db")
	v.SetDefault(KeyDevLegacy, false)
	v.SetDefault(KeyDevToken, "allergy-dev-token")

	v.SetConfigName(".allergy") // .yaml is implicit
	v.SetEnvPrefix("ALLERGY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("ALLERGY_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	return &Loader{v: v}
}

// SetConfigFile reads exactly path instead of searching.
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

// BindFlag lets a command line flag override key when it is set.
func (l *Loader) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return fmt.Errorf("config: no flag for %s", key)
	}
	return l.v.BindPFlag(key, f)
}

// Set overrides key for this loader.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// Load reads the config file, if there is one, and resolves every key. A
// missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", l.v.ConfigFileUsed(), err)
		}
	}
	return l.resolve()
}

func (l *Loader) resolve() (*Config, error) {
	devPath, err := homedir.Expand(l.v.GetString(KeyDevPath))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyDevPath, err)
	}
	logFile, err := homedir.Expand(l.v.GetString(KeyLogFile))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyLogFile, err)
	}
	return &Config{
		Server:        l.v.GetString(KeyServer),
		CSRFToken:     l.v.GetString(KeyCSRFToken),
		Username:      l.v.GetString(KeyUsername),
		Password:      l.v.GetString(KeyPassword),
		SessionCookie: l.v.GetString(KeySession),
		SettleDelay:   l.v.GetDuration(KeySettleDelay),
		DiscardStale:  l.v.GetBool(KeyDiscardStale),
		Log: Log{
			Level: l.v.GetString(KeyLogLevel),
			File:  logFile,
		},
		DevServer: DevServer{
			Addr:       l.v.GetString(KeyDevAddr),
			Path:       devPath,
			LegacyText: l.v.GetBool(KeyDevLegacy),
			CSRFToken:  l.v.GetString(KeyDevToken),
		},
		File: l.v.ConfigFileUsed(),
	}, nil
}

// Watch calls fn with the re-resolved configuration every time the config
// file changes on disk. It does nothing when no file was read.
func (l *Loader) Watch(fn func(*Config, error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		fn(l.resolve())
	})
	l.v.WatchConfig()
}
