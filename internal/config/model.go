package config

// FileName is the config file looked up when no path is given.
const FileName = "fxgraph.yaml"

// Model is the decoded project configuration.
type Model struct {
	// CacheRoot is where generated shader and compute files are written.
	CacheRoot string `yaml:"cache_root"`
	// StorePath is the sqlite database holding persisted sub-assets.
	StorePath string   `yaml:"store"`
	Graphs    []string `yaml:"graphs"`
	Notify    Notify   `yaml:"notify"`
	Log       Log      `yaml:"log"`
}

// Notify configures the live-reload notifier. An empty URL disables it.
type Notify struct {
	URL                string `yaml:"url"`
	Namespace          string `yaml:"namespace"`
	Event              string `yaml:"event"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// Log configures the application logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Model {
	return &Model{
		CacheRoot: ".fxcache",
		StorePath: ".fxcache/subassets.db",
		Graphs:    []string{"**/*.hcl"},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}
