package config

import (
	"fmt"
	"time"
)

// Validate checks configuration correctness. It does not mutate the
// configuration.
func Validate(c Config) []error {
	var errs []error

	if c.MaxRTTMillis < 0 {
		errs = append(errs, fmt.Errorf("max_rtt_ms must be non-negative, got %g", c.MaxRTTMillis))
	}

	if c.AllowedSeqGap < 1 {
		errs = append(errs, fmt.Errorf("allowed_seq_gap must be at least 1, got %d", c.AllowedSeqGap))
	}

	if c.TimestampFormat == "" {
		errs = append(errs, fmt.Errorf("timestamp_format must not be empty"))
	} else {
		// A layout that does not survive a round trip cannot render a
		// usable prefix.
		ref := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
		if _, err := time.Parse(c.TimestampFormat, ref.Format(c.TimestampFormat)); err != nil {
			errs = append(errs, fmt.Errorf("timestamp_format %q is not a valid layout: %v", c.TimestampFormat, err))
		}
	}

	return errs
}
