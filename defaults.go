package seniority

import "time"

const (
	defaultNamespace         = "seniority"
	defaultInferenceTimeout  = 10 * time.Second
	defaultLookupConcurrency = 16
	defaultWriteConcurrency  = 16
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
