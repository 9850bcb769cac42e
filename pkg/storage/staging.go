package storage

import "mime/multipart"

// Staging tracks every file staged while handling one request. Services
// defer Cleanup and call Commit once the file's record has been persisted;
// anything left uncommitted is discarded when the request fails.
type Staging struct {
	store     *Store
	staged    []string
	committed map[string]bool
}

func NewStaging(store *Store) *Staging {
	return &Staging{
		store:     store,
		committed: map[string]bool{},
	}
}

// Stage writes the file through the store and registers it for cleanup.
func (st *Staging) Stage(file *multipart.FileHeader) (string, error) {
	name, err := st.store.Stage(file)
	if err != nil {
		return "", err
	}
	st.staged = append(st.staged, name)
	return name, nil
}

// Commit marks a staged file as referenced by a saved record, exempting it
// from Cleanup.
func (st *Staging) Commit(name string) {
	if name != "" {
		st.committed[name] = true
	}
}

// Cleanup discards every staged file that was never committed. Best-effort:
// a failed delete does not block the remaining ones.
func (st *Staging) Cleanup() {
	for _, name := range st.staged {
		if st.committed[name] {
			continue
		}
		_ = st.store.Discard(name)
	}
}
