package config

import (
	"time"

	"github.com/dmitrijs2005/glucosync/internal/timex"
)

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
