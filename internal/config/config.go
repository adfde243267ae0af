package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/twibbon/internal/theme"
)

// Defaults for the root section.
const (
	DefaultFrame          = "embed:frame.png"
	DefaultSlug           = "milad-16"
	DefaultFormat         = "jpeg"
	DefaultExportMultiple = 2
	DefaultMaxDimension   = 2000
	DefaultAddr           = ":8080"
	DefaultMaxUploadMB    = 10
)

// Notify holds notification settings.
type Notify struct {
	LoadFailure bool
	Export      bool
	Copy        bool
	Error       bool
}

// Server holds settings for the HTTP render endpoint.
type Server struct {
	Addr        string
	MaxUploadMB int
}

// Config holds the application configuration.
type Config struct {
	Theme          string
	Frame          string
	Slug           string
	OutputDir      string
	Format         string
	ExportMultiple int
	MaxDimension   int
	Filter         string
	Notify         Notify
	Server         Server
	Themes         map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Frame:          DefaultFrame,
		Slug:           DefaultSlug,
		Format:         DefaultFormat,
		ExportMultiple: DefaultExportMultiple,
		MaxDimension:   DefaultMaxDimension,
		Notify: Notify{
			LoadFailure: true,
		},
		Server: Server{
			Addr:        DefaultAddr,
			MaxUploadMB: DefaultMaxUploadMB,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// ApplyEnv overrides file values with TWIBBON_FRAME and TWIBBON_SLUG.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("TWIBBON_FRAME")); v != "" {
		c.Frame = v
	}
	if v := strings.TrimSpace(getenv("TWIBBON_SLUG")); v != "" {
		c.Slug = v
	}
}

// MaxUploadBytes converts the server upload limit to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "frame = %s\n", c.Frame)
	fmt.Fprintf(&sb, "slug = %s\n", c.Slug)
	if c.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir = %s\n", c.OutputDir)
	}
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	fmt.Fprintf(&sb, "export_multiple = %d\n", c.ExportMultiple)
	fmt.Fprintf(&sb, "max_dimension = %d\n", c.MaxDimension)
	if c.Filter != "" {
		fmt.Fprintf(&sb, "filter = %s\n", c.Filter)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "load_failure = %v\n", c.Notify.LoadFailure)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "error = %v\n", c.Notify.Error)
	sb.WriteString("\n")

	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Server.Addr)
	fmt.Fprintf(&sb, "max_upload_mb = %d\n", c.Server.MaxUploadMB)
	sb.WriteString("\n")

	var names []string
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
