package config

// Config holds periscan configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Vision VisionCfg `mapstructure:"vision" yaml:"vision"`
	Render RenderCfg `mapstructure:"render" yaml:"render"`
	Server ServerCfg `mapstructure:"server" yaml:"server"`
}

// VisionCfg configures the vision completion provider used for OCR
// escalation.
type VisionCfg struct {
	Provider       string  `mapstructure:"provider" yaml:"provider"`       // "openai" or "passthrough"
	Model          string  `mapstructure:"model" yaml:"model"`
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`         // supports ${ENV_VAR} syntax
	BaseURL        string  `mapstructure:"base_url" yaml:"base_url"`       // optional override
	RateLimit      float64 `mapstructure:"rate_limit" yaml:"rate_limit"`   // requests per minute
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries"`
}

// RenderCfg configures page rasterization.
type RenderCfg struct {
	ScaleToX      int  `mapstructure:"scale_to_x" yaml:"scale_to_x"`
	JPEGQuality   int  `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
	MaxPages      int  `mapstructure:"max_pages" yaml:"max_pages"`
	KeepArtifacts bool `mapstructure:"keep_artifacts" yaml:"keep_artifacts"` // required for debug image retrieval
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Addr           string `mapstructure:"addr" yaml:"addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Vision: VisionCfg{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			APIKey:         "${OPENAI_API_KEY}",
			RateLimit:      60,
			TimeoutSeconds: 45,
			MaxRetries:     3,
		},
		Render: RenderCfg{
			ScaleToX:    1200,
			JPEGQuality: 75,
			MaxPages:    10,
		},
		Server: ServerCfg{
			Addr:           ":8799",
			MaxUploadBytes: 40 << 20,
		},
	}
}
