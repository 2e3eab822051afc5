package persist

// Persister binds a state type to a file basename and codec, so callers
// save and load snapshots without repeating either.
type Persister[T any] struct {
	basename string
	codec    Codec
}

// NewPersister creates a persister writing <basename><codec extension>
// files with the given codec.
func NewPersister[T any](basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		basename: basename,
		codec:    codec,
	}
}

// Save builds the current state via buildState and writes it under dir.
func (p *Persister[T]) Save(dir string, buildState func() *T) error {
	return SaveState(dir, p.basename, p.codec, buildState())
}

// Load reads the snapshot under dir and hands it to restoreState. The
// error from a missing snapshot file satisfies errors.Is(err, fs.ErrNotExist).
func (p *Persister[T]) Load(dir string, restoreState func(*T)) error {
	var state T

	err := LoadState(dir, p.basename, p.codec, &state)
	if err != nil {
		return err
	}

	restoreState(&state)

	return nil
}
