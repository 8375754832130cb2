package config

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-arrow/assets"
	"github.com/Carmen-Shannon/oxy-arrow/common"
	"github.com/Carmen-Shannon/oxy-arrow/engine/marker"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. OXY_VIEW_ZOOM=18.
const EnvPrefix = "OXY"

// WindowConfig holds the window and swap chain settings.
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	VSync  bool   `mapstructure:"vsync"`
	MSAA   bool   `mapstructure:"msaa"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// MarkerConfig holds the arrow settings. An empty AssetDir means the embedded assets.
type MarkerConfig struct {
	VisualScale float64 `mapstructure:"visual_scale"`
	Mesh        string  `mapstructure:"mesh"`
	ShadowMesh  string  `mapstructure:"shadow_mesh"`
	AssetDir    string  `mapstructure:"asset_dir"`
}

// PaletteConfig holds the arrow colors as #RRGGBBAA strings.
type PaletteConfig struct {
	Shadow   string `mapstructure:"shadow"`
	Obsolete string `mapstructure:"obsolete"`
	Arrow    string `mapstructure:"arrow"`
	Outline  string `mapstructure:"outline"`
}

// ViewConfig holds the initial view.
type ViewConfig struct {
	Zoom    float64 `mapstructure:"zoom"`
	TiltDeg float64 `mapstructure:"tilt_deg"`
}

// Config is the application configuration.
type Config struct {
	Window WindowConfig  `mapstructure:"window"`
	Log    LogConfig     `mapstructure:"log"`
	Marker MarkerConfig  `mapstructure:"marker"`
	Colors PaletteConfig `mapstructure:"palette"`
	View   ViewConfig    `mapstructure:"view"`
}

// Load reads the configuration file at path on top of the defaults and applies
// OXY_-prefixed environment overrides. An empty path loads defaults and environment only.
// The file format follows the extension (json, yaml, toml).
//
// Parameters:
//   - path: the config file, or ""
//
// Returns:
//   - Config: the resolved configuration
//   - error: an error if the file cannot be read or decoded
func Load(path string) (Config, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "oxy-arrow")
	viper.SetDefault("window.vsync", true)
	viper.SetDefault("window.msaa", true)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.console", true)

	viper.SetDefault("marker.visual_scale", 1.0)
	viper.SetDefault("marker.mesh", assets.ArrowMesh)
	viper.SetDefault("marker.shadow_mesh", assets.ArrowShadowMesh)
	viper.SetDefault("marker.asset_dir", "")

	defaults := marker.DefaultPalette()
	for key, name := range paletteKeys {
		c, _ := defaults.Color(name)
		viper.SetDefault("palette."+key, c.String())
	}

	viper.SetDefault("view.zoom", 17.0)
	viper.SetDefault("view.tilt_deg", 0.0)
}

// paletteKeys maps config keys to palette entries. Viper lowercases keys, so the
// mixed-case color names cannot be used directly.
var paletteKeys = map[string]common.ColorName{
	"shadow":   marker.ColorShadow,
	"obsolete": marker.ColorObsolete,
	"arrow":    marker.ColorArrow,
	"outline":  marker.ColorOutline,
}

// Palette parses the configured colors.
//
// Returns:
//   - common.Palette: the arrow palette
//   - error: common.ErrInvalidColor wrapped with the offending key
func (c Config) Palette() (common.Palette, error) {
	values := map[string]string{
		"shadow":   c.Colors.Shadow,
		"obsolete": c.Colors.Obsolete,
		"arrow":    c.Colors.Arrow,
		"outline":  c.Colors.Outline,
	}
	colors := make(map[common.ColorName]common.Color, len(values))
	for key, value := range values {
		color, err := common.ParseColor(value)
		if err != nil {
			return common.Palette{}, fmt.Errorf("palette.%s: %w", key, err)
		}
		colors[paletteKeys[key]] = color
	}
	return common.NewPalette(colors), nil
}
