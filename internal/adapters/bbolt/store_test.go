package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/corey/ahoc/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// bbolt Dictionary Store — save/load keyword dictionaries, survive reopen
// Expectation: dictionaries are isolated buckets, entries come back sorted,
// fingerprints change with every edit, drops are idempotent.
// =============================================================================

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestEntries creates a realistic secret-scanning dictionary.
func makeTestEntries() []ports.Entry {
	return []ports.Entry{
		{Keyword: "password", Value: "credential", HasValue: true},
		{Keyword: "api_key", Value: "credential", HasValue: true},
		{Keyword: "BEGIN RSA PRIVATE KEY", Value: "private-key", HasValue: true},
		{Keyword: "token", Value: "", HasValue: true},
	}
}

func TestStore_CreatePutLoad(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("secrets", "any"))
	for _, e := range makeTestEntries() {
		require.NoError(t, store.PutEntry("secrets", e))
	}

	d, err := store.LoadDictionary("secrets")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "secrets", d.Name)
	assert.Equal(t, "any", d.Policy)

	var keys []string
	for _, e := range d.Entries {
		keys = append(keys, e.Keyword)
	}
	assert.Equal(t, []string{"BEGIN RSA PRIVATE KEY", "api_key", "password", "token"}, keys, "bbolt returns keys in byte order")
	assert.Equal(t, ports.Entry{Keyword: "token", Value: "", HasValue: true}, d.Entries[3], "explicit empty value survives")
	assert.NotZero(t, d.Fingerprint)
}

func TestStore_LoadMissingDictionary(t *testing.T) {
	store, _ := newTestStore(t)
	d, err := store.LoadDictionary("nope")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestStore_EmptyDictionaryLoadsWithoutEntries(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("empty", "length"))
	d, err := store.LoadDictionary("empty")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Empty(t, d.Entries)
	assert.Equal(t, "length", d.Policy)
}

func TestStore_PutRequiresDictionary(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.PutEntry("ghost", ports.Entry{Keyword: "x"})
	assert.ErrorIs(t, err, ErrNoDictionary)

	_, err = store.DeleteEntry("ghost", "x")
	assert.ErrorIs(t, err, ErrNoDictionary)
}

func TestStore_PutRejectsEmptyKeyword(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("d", "any"))
	assert.Error(t, store.PutEntry("d", ports.Entry{}))
}

func TestStore_CreateIsIdempotentPerPolicy(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("d", "ints"))
	require.NoError(t, store.PutEntry("d", ports.Entry{Keyword: "a"}))
	require.NoError(t, store.CreateDictionary("d", "ints"), "same policy is a no-op")

	err := store.CreateDictionary("d", "any")
	assert.ErrorIs(t, err, ErrPolicyConflict)

	d, err := store.LoadDictionary("d")
	require.NoError(t, err)
	assert.Len(t, d.Entries, 1, "re-create keeps entries")
}

func TestStore_PutOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("d", "any"))
	require.NoError(t, store.PutEntry("d", ports.Entry{Keyword: "k", Value: "v1", HasValue: true}))
	require.NoError(t, store.PutEntry("d", ports.Entry{Keyword: "k", Value: "v2", HasValue: true}))

	d, err := store.LoadDictionary("d")
	require.NoError(t, err)
	require.Len(t, d.Entries, 1)
	assert.Equal(t, "v2", d.Entries[0].Value)
}

func TestStore_DeleteEntry(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("d", "length"))
	require.NoError(t, store.PutEntry("d", ports.Entry{Keyword: "a"}))

	found, err := store.DeleteEntry("d", "a")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.DeleteEntry("d", "a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_DictionaryIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("alpha", "length"))
	require.NoError(t, store.CreateDictionary("beta", "length"))
	require.NoError(t, store.PutEntry("alpha", ports.Entry{Keyword: "only-in-alpha"}))

	beta, err := store.LoadDictionary("beta")
	require.NoError(t, err)
	assert.Empty(t, beta.Entries)

	names, err := store.ListDictionaries()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestStore_DropIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("d", "any"))
	require.NoError(t, store.DropDictionary("d"))
	require.NoError(t, store.DropDictionary("d"))

	d, err := store.LoadDictionary("d")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestStore_SurvivesReopen(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.CreateDictionary("secrets", "any"))
	for _, e := range makeTestEntries() {
		require.NoError(t, store.PutEntry("secrets", e))
	}
	before, err := store.LoadDictionary("secrets")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ro, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()
	after, err := ro.LoadDictionary("secrets")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_OpenReadOnlyMissingFile(t *testing.T) {
	_, err := OpenReadOnly(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.CreateDictionary("d", "length"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				assert.NoError(t, store.PutEntry("d", ports.Entry{Keyword: fmt.Sprintf("k%d-%d", i, j)}))
			}
		}()
	}
	wg.Wait()

	d, err := store.LoadDictionary("d")
	require.NoError(t, err)
	assert.Len(t, d.Entries, 80)
}

func TestFingerprint(t *testing.T) {
	base := makeTestEntries()
	fp := Fingerprint("any", base)
	assert.Equal(t, fp, Fingerprint("any", makeTestEntries()), "deterministic")
	assert.NotEqual(t, fp, Fingerprint("ints", base), "policy participates")

	edited := makeTestEntries()
	edited[0].Value = "other"
	assert.NotEqual(t, fp, Fingerprint("any", edited))

	omitted := makeTestEntries()
	omitted[3].HasValue = false
	assert.NotEqual(t, fp, Fingerprint("any", omitted), "omitted differs from explicit empty")
}
