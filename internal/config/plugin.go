package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPluginConfig is where plugin options are looked up when
// LINKBOT_PLUGIN_CONFIG is not set.
const DefaultPluginConfig = "data/config/linkpreview/config.yaml"

// PluginOptions mirrors the plugin options file.
//
//	youtube_key: AIza...
type PluginOptions struct {
	YouTubeKey string `yaml:"youtube_key"`
}

// ReadPluginOptions parses the options file at path.
// A missing file is not an error and yields zero options.
func ReadPluginOptions(path string) (PluginOptions, error) {
	var opts PluginOptions
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return opts, nil
		}
		return opts, fmt.Errorf("read plugin options %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse plugin options %s: %w", path, err)
	}
	opts.YouTubeKey = strings.TrimSpace(opts.YouTubeKey)
	return opts, nil
}

// PluginSource resolves plugin options on every lookup, so edits to the file
// take effect without a restart. It satisfies platforms.KeySource.
type PluginSource struct {
	Path       string
	FallbackYT string // used when the file is absent, unreadable or has no youtube_key
}

func NewPluginSource(cfg *Config) *PluginSource {
	return &PluginSource{Path: cfg.PluginConfig, FallbackYT: cfg.YouTubeKey}
}

func (p *PluginSource) YouTubeKey() string {
	opts, err := ReadPluginOptions(p.Path)
	if err == nil && opts.YouTubeKey != "" {
		return opts.YouTubeKey
	}
	return p.FallbackYT
}

// Check reports a malformed options file. Used once at startup.
func (p *PluginSource) Check() error {
	_, err := ReadPluginOptions(p.Path)
	return err
}
