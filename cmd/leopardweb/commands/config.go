package commands

import (
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/scrapers/banner"
	"leopardweb/lib/configutil"
	"time"
)

type Config struct {
	BaseUrl          string           `json:"base_url"`
	PageSize         int              `json:"page_size"`
	Concurrency      int              `json:"concurrency"`
	TimeoutSeconds   int              `json:"timeout_seconds"`
	UserAgent        string           `json:"user_agent"`
	CloudflareBypass bool             `json:"cloudflare_bypass"`
	DumpHttp         string           `json:"dump_http"`
	Telemetry        telemetry.Config `json:"telemetry"`
}

var defaultConfig = Config{
	BaseUrl:        banner.DefaultBaseUrl,
	PageSize:       banner.DefaultPageSize,
	Concurrency:    1,
	TimeoutSeconds: 60,
	UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
}

// loadConfig reads the config file and applies the flags that were explicitly set on top.
func loadConfig(name string, overrides Config) (Config, error) {
	config, err := configutil.Load(name, defaultConfig)
	if err != nil {
		return config, err
	}
	if overrides.BaseUrl != "" {
		config.BaseUrl = overrides.BaseUrl
	}
	if overrides.PageSize > 0 {
		config.PageSize = overrides.PageSize
	}
	if overrides.Concurrency > 0 {
		config.Concurrency = overrides.Concurrency
	}
	if overrides.DumpHttp != "" {
		config.DumpHttp = overrides.DumpHttp
	}
	return config, nil
}

func (c Config) clientOptions() banner.ClientOptions {
	return banner.ClientOptions{
		BaseUrl:          c.BaseUrl,
		PageSize:         c.PageSize,
		Concurrency:      c.Concurrency,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		UserAgent:        c.UserAgent,
		CloudflareBypass: c.CloudflareBypass,
		DumpDir:          c.DumpHttp,
	}
}
