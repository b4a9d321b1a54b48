// Package memory provides conversation memory configuration options.
package memory

import (
	"fmt"
	"time"

	"github.com/kart-io/ragchat/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains conversation memory configuration.
type Options struct {
	// MaxTurns caps the number of stored messages per session.
	// 20 messages is 10 user/assistant exchanges.
	MaxTurns int `json:"max-turns" mapstructure:"max-turns"`

	// TTL is the session expiry, refreshed on every write.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		MaxTurns:  20,
		TTL:       time.Hour,
		KeyPrefix: "chat:",
	}
}

// AddFlags adds flags for memory options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.MaxTurns, options.Join(prefixes...)+"memory.max-turns", o.MaxTurns, "Maximum stored messages per session.")
	fs.DurationVar(&o.TTL, options.Join(prefixes...)+"memory.ttl", o.TTL, "Session expiry, refreshed on every write.")
	fs.StringVar(&o.KeyPrefix, options.Join(prefixes...)+"memory.key-prefix", o.KeyPrefix, "Redis key prefix for session history.")
}

// Validate validates the memory options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("memory.max-turns must be positive"))
	}
	if o.TTL <= 0 {
		errs = append(errs, fmt.Errorf("memory.ttl must be positive"))
	}

	return errs
}

// Complete completes the memory options with defaults.
func (o *Options) Complete() error {
	if o.KeyPrefix == "" {
		o.KeyPrefix = "chat:"
	}
	return nil
}
