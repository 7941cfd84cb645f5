package seniority

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The pipeline calls them on hot paths.
type Hooks interface {
	// A stored value could not be decoded and was deleted.
	// reason ∈ {"value_decode"}
	SelfHeal(storageKey, reason string)

	// A cache read failed; the key was treated as a miss.
	CacheLookupError(key LookupKey, err error)

	// Writing a freshly inferred level back failed. The level was still used
	// for the current batch.
	CacheWriteError(key LookupKey, err error)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// The inference call failed; misses keys stay unknown in this batch.
	InferenceUnavailable(misses int, err error)

	// The inference response referenced an id that was not requested (or
	// repeated one). The batch was aborted.
	ProtocolViolation(id CorrelationID, err error)

	// A batch finished (successfully or degraded).
	BatchDone(r Result)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)                {}
func (NopHooks) CacheLookupError(LookupKey, error)      {}
func (NopHooks) CacheWriteError(LookupKey, error)       {}
func (NopHooks) ProviderSetRejected(string)             {}
func (NopHooks) InferenceUnavailable(int, error)        {}
func (NopHooks) ProtocolViolation(CorrelationID, error) {}
func (NopHooks) BatchDone(Result)                       {}
