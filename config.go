package ivaooverlay

import "time"

type PollConfig struct {
	Period  time.Duration `mapstructure:"period,omitempty"`
	Timeout time.Duration `mapstructure:"timeout,omitempty"`
}

const (
	DefaultPollPeriod  = 5 * time.Second
	DefaultPollTimeout = 10 * time.Second
)

// WithDefaults fills zero values with the default cadence and timeout.
func (c PollConfig) WithDefaults() PollConfig {
	if c.Period <= 0 {
		c.Period = DefaultPollPeriod
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultPollTimeout
	}
	return c
}
