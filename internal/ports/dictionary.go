package ports

// DictionaryStore persists named keyword dictionaries. The store keeps
// keywords and their raw values only; automata are always rebuilt from a
// loaded dictionary and never serialized.
//
// Writes are transactional: a crash mid-write must not corrupt previously
// committed entries.
type DictionaryStore interface {
	// CreateDictionary creates name with the given value policy. Creating an
	// existing dictionary with the same policy is a no-op; a different
	// policy is an error.
	CreateDictionary(name, policy string) error

	// PutEntry inserts or replaces one entry. The dictionary must exist.
	PutEntry(name string, entry Entry) error

	// DeleteEntry removes keyword and reports whether it was present.
	DeleteEntry(name, keyword string) (bool, error)

	// LoadDictionary returns the dictionary with entries sorted by keyword.
	// Returns nil, nil if the dictionary does not exist.
	LoadDictionary(name string) (*Dictionary, error)

	// ListDictionaries returns dictionary names in sorted order.
	ListDictionaries() ([]string, error)

	// DropDictionary removes a dictionary and all its entries.
	// Idempotent: dropping a nonexistent dictionary is not an error.
	DropDictionary(name string) error

	// Close releases the underlying database.
	Close() error
}

// Entry is one stored keyword. HasValue distinguishes an omitted value from
// an explicit empty string; policies treat the two differently.
type Entry struct {
	Keyword  string `json:"keyword"`
	Value    string `json:"value,omitempty"`
	HasValue bool   `json:"has_value"`
}

// Dictionary is a loaded keyword set.
type Dictionary struct {
	Name        string
	Policy      string
	Entries     []Entry
	Fingerprint uint64 // xxhash of policy and entries; changes with any edit
}
