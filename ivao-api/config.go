package ivaoapi

import (
	ivaooverlay "github.com/vatsimnerd/ivao-overlay"
)

type Config struct {
	URL       string `mapstructure:"url,omitempty"`
	APIKey    string `mapstructure:"api_key"`
	UserAgent string `mapstructure:"user_agent,omitempty"`
	// InsecureSkipVerify disables TLS certificate checks on the roster endpoint.
	InsecureSkipVerify bool                   `mapstructure:"insecure_skip_verify,omitempty"`
	Poll               ivaooverlay.PollConfig `mapstructure:"poll"`
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = IvaoATCSummaryURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	c.Poll = c.Poll.WithDefaults()
	return c
}
