package memoflight

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; the memoizer calls them
// on hot paths. Wrap with hooks/async if a sink can block.
type Hooks interface {
	// An entry was served from the store.
	Hit(namespace, storageKey string)

	// No entry existed; the producer is about to run.
	Miss(namespace, storageKey string)

	// The producer returned an error; the entry stays absent.
	ProducerError(namespace, storageKey string, err error)

	// An entry was deleted by the memoizer on read.
	// reason is one of "corrupt", "value_decode".
	SelfHeal(storageKey, reason string)

	// A store write failed after a successful producer call.
	StoreSetError(storageKey string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Hit(string, string)                  {}
func (NopHooks) Miss(string, string)                 {}
func (NopHooks) ProducerError(string, string, error) {}
func (NopHooks) SelfHeal(string, string)             {}
func (NopHooks) StoreSetError(string, error)         {}
