// Package app wires the dictionary store, the pattern matcher and the file
// watcher into the operations behind the ahoc CLI.
//
// The database is opened per operation: writes take bbolt's exclusive lock
// only for the duration of one command and reads use a shared read-only
// open, so a running `ahoc watch` never blocks `ahoc add`.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/corey/ahoc/internal/adapters/ahocorasick"
	"github.com/corey/ahoc/internal/adapters/bbolt"
	"github.com/corey/ahoc/internal/domain/automaton"
	"github.com/corey/ahoc/internal/logging"
	"github.com/corey/ahoc/internal/ports"
	"github.com/rs/zerolog"
)

// ErrUnknownDictionary is returned when a dictionary has never been created.
var ErrUnknownDictionary = errors.New("unknown dictionary")

// errNoDatabase means no command has written the database yet.
var errNoDatabase = errors.New("no database")

// App is the top-level container for one project.
type App struct {
	Paths  *Paths
	Config Config

	dbPath string
	log    zerolog.Logger
}

// New creates an App for projectRoot. Nothing is opened until an operation
// needs the database.
func New(projectRoot string, cfg Config) (*App, error) {
	if projectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}
	if _, err := automaton.ParseValuePolicy(cfg.Policy); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	paths := NewPaths(abs)
	dbPath := paths.DB
	if cfg.DB != "" {
		dbPath = paths.Resolve(cfg.DB)
	}
	return &App{
		Paths:  paths,
		Config: cfg,
		dbPath: dbPath,
		log:    logging.With().Str("db", dbPath).Logger(),
	}, nil
}

// DBPath returns the database file in use.
func (a *App) DBPath() string {
	return a.dbPath
}

// update runs fn against a writable store, creating the database if needed.
func (a *App) update(fn func(ports.DictionaryStore) error) error {
	if err := os.MkdirAll(filepath.Dir(a.dbPath), 0755); err != nil {
		return err
	}
	store, err := bbolt.NewStore(a.dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// view runs fn against a read-only store. It returns errNoDatabase when the
// database file does not exist yet.
func (a *App) view(fn func(ports.DictionaryStore) error) error {
	if _, err := os.Stat(a.dbPath); errors.Is(err, fs.ErrNotExist) {
		return errNoDatabase
	}
	store, err := bbolt.OpenReadOnly(a.dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// Dictionary loads a dictionary, failing with ErrUnknownDictionary if it
// does not exist.
func (a *App) Dictionary(name string) (*ports.Dictionary, error) {
	var d *ports.Dictionary
	err := a.view(func(s ports.DictionaryStore) error {
		var err error
		d, err = s.LoadDictionary(name)
		return err
	})
	if errors.Is(err, errNoDatabase) || (err == nil && d == nil) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDictionary, name)
	}
	return d, err
}

// Dictionaries lists dictionary names in sorted order.
func (a *App) Dictionaries() ([]string, error) {
	var names []string
	err := a.view(func(s ports.DictionaryStore) error {
		var err error
		names, err = s.ListDictionaries()
		return err
	})
	if errors.Is(err, errNoDatabase) {
		return nil, nil
	}
	return names, err
}

// AddKeyword stores entry in dict and reports whether the keyword is new.
// A missing dictionary is created with the configured policy. The entry is
// first inserted into a scratch automaton under the dictionary's policy so
// invalid values are rejected before anything is written. An empty keyword
// is a no-op.
//
// Under the ints policy a keyword added without a value is stored with the
// count of distinct keywords the dictionary held before it, which is what
// the automaton itself would assign at insertion time.
func (a *App) AddKeyword(dict string, entry ports.Entry) (bool, error) {
	if entry.Keyword == "" {
		return false, nil
	}

	var added bool
	err := a.update(func(s ports.DictionaryStore) error {
		d, err := s.LoadDictionary(dict)
		if err != nil {
			return err
		}
		policyName := a.Config.Policy
		var existing []ports.Entry
		if d != nil {
			policyName = d.Policy
			existing = d.Entries
		}
		policy, err := automaton.ParseValuePolicy(policyName)
		if err != nil {
			return err
		}

		if policy == automaton.StoreInts && !entry.HasValue {
			entry.Value = strconv.Itoa(len(existing))
			entry.HasValue = true
		}
		if _, err := ahocorasick.AddEntry(automaton.New(policy), entry); err != nil {
			return fmt.Errorf("keyword %q: %w", entry.Keyword, err)
		}

		if d == nil {
			if err := s.CreateDictionary(dict, policy.String()); err != nil {
				return err
			}
			a.log.Info().Str("dictionary", dict).Stringer("policy", policy).Msg("dictionary created")
		}
		added = !slices.ContainsFunc(existing, func(e ports.Entry) bool { return e.Keyword == entry.Keyword })
		return s.PutEntry(dict, entry)
	})
	if err != nil {
		return false, err
	}
	a.log.Debug().Str("dictionary", dict).Str("keyword", entry.Keyword).Bool("new", added).Msg("keyword stored")
	return added, nil
}

// RemoveKeyword deletes keyword from dict and reports whether it was present.
func (a *App) RemoveKeyword(dict, keyword string) (bool, error) {
	var found bool
	err := a.update(func(s ports.DictionaryStore) error {
		d, err := s.LoadDictionary(dict)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("%w: %q", ErrUnknownDictionary, dict)
		}
		found, err = s.DeleteEntry(dict, keyword)
		return err
	})
	return found, err
}

// DropDictionary removes dict and all its keywords. Dropping a dictionary
// that does not exist is not an error.
func (a *App) DropDictionary(dict string) error {
	if _, err := os.Stat(a.dbPath); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return a.update(func(s ports.DictionaryStore) error {
		return s.DropDictionary(dict)
	})
}

// Trie loads dict into an uncompiled automaton, enough for lookups and
// enumeration.
func (a *App) Trie(dict string) (*automaton.Automaton, error) {
	d, err := a.Dictionary(dict)
	if err != nil {
		return nil, err
	}
	policy, err := automaton.ParseValuePolicy(d.Policy)
	if err != nil {
		return nil, err
	}
	t := automaton.New(policy)
	for _, e := range d.Entries {
		if _, err := ahocorasick.AddEntry(t, e); err != nil {
			return nil, fmt.Errorf("dictionary %q keyword %q: %w", dict, e.Keyword, err)
		}
	}
	return t, nil
}

// Lookup returns the value stored for keyword, or automaton.ErrNotFound.
func (a *App) Lookup(dict, keyword string) (any, error) {
	t, err := a.Trie(dict)
	if err != nil {
		return nil, err
	}
	return t.Get(keyword)
}

// Item is one keyword and its value.
type Item struct {
	Keyword string `json:"keyword"`
	Value   any    `json:"value"`
}

// Keywords lists the keywords of dict in rune order. A non-empty pattern
// restricts the listing to keywords matching it under how, with wildcard
// standing for any single rune.
func (a *App) Keywords(dict, pattern string, wildcard rune, how automaton.MatchHow) ([]Item, error) {
	t, err := a.Trie(dict)
	if err != nil {
		return nil, err
	}
	var items []Item
	if pattern == "" {
		for k, v := range t.Items() {
			items = append(items, Item{Keyword: k, Value: v})
		}
		return items, nil
	}
	for k := range t.KeysMatching(pattern, wildcard, how) {
		v, _ := t.Get(k)
		items = append(items, Item{Keyword: k, Value: v})
	}
	return items, nil
}

// Stats describes one dictionary and its compiled automaton.
type Stats struct {
	Dictionary  string `json:"dictionary"`
	Policy      string `json:"policy"`
	Kind        string `json:"kind"`
	Fingerprint string `json:"fingerprint"`
	Nodes       int    `json:"nodes"`
	Keywords    int    `json:"keywords"`
	LongestWord int    `json:"longest_word"`
	Transitions int    `json:"transitions"`
	Inherited   int    `json:"inherited"`
}

// Stats compiles dict and reports its size.
func (a *App) Stats(dict string) (Stats, error) {
	d, err := a.Dictionary(dict)
	if err != nil {
		return Stats{}, err
	}
	au, err := ahocorasick.Build(d.Policy, d.Entries)
	if err != nil {
		return Stats{}, fmt.Errorf("dictionary %q: %w", dict, err)
	}
	s := au.Stats()
	return Stats{
		Dictionary:  d.Name,
		Policy:      d.Policy,
		Kind:        au.Kind().String(),
		Fingerprint: fmt.Sprintf("%016x", d.Fingerprint),
		Nodes:       s.Nodes,
		Keywords:    s.Words,
		LongestWord: s.LongestWord,
		Transitions: s.Transitions,
		Inherited:   s.Inherited,
	}, nil
}

// Matcher loads dict and returns a compiled matcher along with the
// fingerprint of the dictionary it was built from.
func (a *App) Matcher(dict string) (*ahocorasick.Matcher, uint64, error) {
	d, err := a.Dictionary(dict)
	if err != nil {
		return nil, 0, err
	}
	m := &ahocorasick.Matcher{}
	if err := m.Rebuild(d.Policy, d.Entries); err != nil {
		return nil, 0, fmt.Errorf("dictionary %q: %w", dict, err)
	}
	a.log.Debug().Str("dictionary", dict).Int("keywords", m.PatternCount()).Msg("matcher built")
	return m, d.Fingerprint, nil
}
