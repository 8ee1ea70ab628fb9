package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tortmayr/sprotty-1/animation"
	"github.com/tortmayr/sprotty-1/command"
)

// Duration wraps time.Duration so config files can spell intervals the
// way Go does, e.g. "250ms" or "1.5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds the server settings. The zero value is not usable; start
// from [DefaultConfig] or [LoadConfig].
type Config struct {
	// Listen is the TCP address the HTTP server binds, e.g. ":8080".
	Listen string `yaml:"listen"`

	// FrameInterval is the animation frame interval of each session's
	// command stack.
	FrameInterval Duration `yaml:"frameInterval"`

	// AnimationDuration is how long animated transitions run. Zero makes
	// every transition apply synchronously.
	AnimationDuration Duration `yaml:"animationDuration"`

	// Zoom bounds the zoom factor viewport commands may install. Equal
	// zero values disable clamping.
	Zoom struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	} `yaml:"zoom"`

	// AllowedOrigins lists the Origin header values accepted on
	// WebSocket upgrades. An empty list accepts same-host requests only;
	// a single "*" accepts anything.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// DefaultConfig returns the configuration used when no file and no
// environment overrides are present.
func DefaultConfig() Config {
	cfg := Config{
		Listen:            ":8080",
		FrameInterval:     Duration(animation.DefaultInterval),
		AnimationDuration: Duration(command.DefaultDuration),
	}
	cfg.Zoom.Min = command.DefaultZoomLimits.Min
	cfg.Zoom.Max = command.DefaultZoomLimits.Max
	return cfg
}

// LoadConfig builds the configuration from defaults, an optional YAML
// file and the environment, in that order of precedence (environment
// wins). An empty path skips the file.
//
// Environment overrides: SPROTTY_LISTEN, SPROTTY_FRAME_INTERVAL,
// SPROTTY_ANIMATION_DURATION and SPROTTY_ALLOWED_ORIGINS
// (comma-separated).
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SPROTTY_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("SPROTTY_FRAME_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SPROTTY_FRAME_INTERVAL: %w", err)
		}
		c.FrameInterval = Duration(d)
	}
	if v := os.Getenv("SPROTTY_ANIMATION_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SPROTTY_ANIMATION_DURATION: %w", err)
		}
		c.AnimationDuration = Duration(d)
	}
	if v := os.Getenv("SPROTTY_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}
	return nil
}

// Validate reports the first configuration error.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address must not be empty")
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("config: frame interval must be positive, got %v", time.Duration(c.FrameInterval))
	}
	if c.AnimationDuration < 0 {
		return fmt.Errorf("config: animation duration must not be negative, got %v", time.Duration(c.AnimationDuration))
	}
	if c.Zoom.Min < 0 || c.Zoom.Max < 0 {
		return fmt.Errorf("config: zoom limits must not be negative, got min %v max %v", c.Zoom.Min, c.Zoom.Max)
	}
	if c.Zoom.Max != 0 && c.Zoom.Min > c.Zoom.Max {
		return fmt.Errorf("config: zoom min %v exceeds max %v", c.Zoom.Min, c.Zoom.Max)
	}
	return nil
}

// zoomLimits converts the config's zoom section for the command stack.
func (c Config) zoomLimits() command.ZoomLimits {
	return command.ZoomLimits{Min: c.Zoom.Min, Max: c.Zoom.Max}
}
