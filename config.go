package unifiedui

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the TOML configuration of a rendering session.
//
//	platforms  = ["terminal", "web"]
//	concurrent = true
//	timeout    = "2s"
//	theme      = "dark"
//
//	[terminal]
//	width  = 100
//	border = true
//
//	[web]
//	title        = "Login"
//	class_prefix = "app-"
type Config struct {
	Platforms  []string       `toml:"platforms"`
	Concurrent bool           `toml:"concurrent"`
	Timeout    Duration       `toml:"timeout"`
	Theme      string         `toml:"theme"`
	Terminal   TerminalConfig `toml:"terminal"`
	Web        WebConfig      `toml:"web"`
}

// TerminalConfig holds terminal adapter options.
type TerminalConfig struct {
	Width  int  `toml:"width"`
	Height int  `toml:"height"`
	Border bool `toml:"border"`
}

// WebConfig holds web adapter options.
type WebConfig struct {
	Title       string `toml:"title"`
	ClassPrefix string `toml:"class_prefix"`
	Document    bool   `toml:"document"`
}

// Duration is a time.Duration written as a string such as "1.5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig renders on the terminal only, sequentially, with the dark
// theme.
func DefaultConfig() Config {
	return Config{
		Platforms: []string{string(Terminal)},
		Timeout:   Duration{DefaultTimeout},
		Theme:     "dark",
		Web:       WebConfig{Title: "app", ClassPrefix: "uui-"},
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML over the defaults. Unknown keys are an error.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undec[0].String())
	}
	if _, err := cfg.ParsedPlatforms(); err != nil {
		return Config{}, err
	}
	if _, ok := Themes[cfg.Theme]; cfg.Theme != "" && !ok {
		return Config{}, fmt.Errorf("unknown theme %q", cfg.Theme)
	}
	if cfg.Timeout.Duration < 0 {
		return Config{}, fmt.Errorf("negative timeout %s", cfg.Timeout.Duration)
	}
	return cfg, nil
}

// ParsedPlatforms returns the configured platforms.
func (c Config) ParsedPlatforms() ([]Platform, error) {
	out := make([]Platform, 0, len(c.Platforms))
	for _, s := range c.Platforms {
		p, err := ParsePlatform(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Options returns the adapter options for p.
func (c Config) Options(p Platform) Options {
	opts := Options{}
	switch p {
	case Terminal:
		if c.Terminal.Width > 0 {
			opts["width"] = c.Terminal.Width
		}
		if c.Terminal.Height > 0 {
			opts["height"] = c.Terminal.Height
		}
		opts["border"] = c.Terminal.Border
	case Web:
		opts["title"] = c.Web.Title
		opts["class_prefix"] = c.Web.ClassPrefix
		opts["document"] = c.Web.Document
	}
	return opts
}

// RenderOptions merges the options of every platform. Keys do not collide
// between the built-in adapters.
func (c Config) RenderOptions() Options {
	opts := Options{}
	for _, p := range Platforms {
		for k, v := range c.Options(p) {
			opts[k] = v
		}
	}
	return opts
}
