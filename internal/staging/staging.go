// Package staging de-duplicates parsed statements on their way into the
// query engine. Statements are keyed by a 128-bit xxh3 digest of their
// N-Quads form, so arbitrarily long literals never hit badger's key size
// limit.
package staging

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/zeebo/xxh3"

	"github.com/aleksaelezovic/cottas/pkg/rdf"
)

// statementPrefix namespaces statement keys.
const statementPrefix byte = 0x01

// ErrCorrupt is returned when a stored value cannot be decoded.
var ErrCorrupt = errors.New("staging: corrupt statement")

// Area is a badger-backed set of statements.
type Area struct {
	db    *badger.DB
	txn   *badger.Txn
	dir   string // removed on Close when non-empty
	count int
	dupes int
	quad  bool
}

// Open creates a staging area. An empty dir keeps everything in memory;
// otherwise a private directory is created under dir and removed on Close.
func Open(dir string) (*Area, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	var tmp string
	if dir != "" {
		var err error
		tmp, err = os.MkdirTemp(dir, "cottas-staging-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create staging dir: %w", err)
		}
		opts = badger.DefaultOptions(tmp)
	}
	opts.Logger = nil // Disable default logger

	db, err := badger.Open(opts)
	if err != nil {
		if tmp != "" {
			_ = os.RemoveAll(tmp) // #nosec G104 - open error is the one to report
		}
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &Area{db: db, dir: tmp}, nil
}

// Key computes the staging key of a statement.
func Key(s rdf.Statement) []byte {
	hash := xxh3.HashString128(s.String())
	key := make([]byte, 17)
	key[0] = statementPrefix
	binary.BigEndian.PutUint64(key[1:9], hash.Hi)
	binary.BigEndian.PutUint64(key[9:17], hash.Lo)
	return key
}

// Add stages a statement. It reports false when the statement was already
// staged.
func (a *Area) Add(s rdf.Statement) (bool, error) {
	if a.txn == nil {
		a.txn = a.db.NewTransaction(true)
	}

	key := Key(s)
	_, err := a.txn.Get(key)
	switch {
	case err == nil:
		a.dupes++
		return false, nil
	case !errors.Is(err, badger.ErrKeyNotFound):
		return false, err
	}

	value := encode(s)
	if err := a.txn.Set(key, value); errors.Is(err, badger.ErrTxnTooBig) {
		// Transaction is full: commit and retry in a fresh one.
		if err := a.Flush(); err != nil {
			return false, err
		}
		a.txn = a.db.NewTransaction(true)
		if err := a.txn.Set(key, value); err != nil {
			return false, err
		}
	} else if err != nil {
		return false, err
	}

	a.count++
	if !s.InDefaultGraph() {
		a.quad = true
	}
	return true, nil
}

// Flush commits pending statements.
func (a *Area) Flush() error {
	if a.txn == nil {
		return nil
	}
	txn := a.txn
	a.txn = nil
	return txn.Commit()
}

// Len returns the number of distinct statements staged.
func (a *Area) Len() int {
	return a.count
}

// Duplicates returns how many Add calls were dropped as duplicates.
func (a *Area) Duplicates() int {
	return a.dupes
}

// Quad reports whether any staged statement names a graph.
func (a *Area) Quad() bool {
	return a.quad
}

// Iterator flushes pending statements and iterates over all of them in key
// order. The caller must Close it.
func (a *Area) Iterator() (*Iterator, error) {
	if err := a.Flush(); err != nil {
		return nil, err
	}

	txn := a.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte{statementPrefix}
	it := txn.NewIterator(opts)
	return &Iterator{txn: txn, it: it}, nil
}

// Close discards pending work and releases the area.
func (a *Area) Close() error {
	if a.txn != nil {
		a.txn.Discard()
		a.txn = nil
	}
	err := a.db.Close()
	if a.dir != "" {
		err = errors.Join(err, os.RemoveAll(a.dir))
	}
	return err
}

// Iterator walks staged statements.
type Iterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	started bool
	current rdf.Statement
	err     error
}

// Next advances to the next statement.
func (i *Iterator) Next() bool {
	if i.err != nil {
		return false
	}
	if !i.started {
		i.it.Rewind()
		i.started = true
	} else {
		i.it.Next()
	}
	if !i.it.Valid() {
		return false
	}

	i.err = i.it.Item().Value(func(val []byte) error {
		s, err := decode(val)
		i.current = s
		return err
	})
	return i.err == nil
}

// Statement returns the current statement.
func (i *Iterator) Statement() rdf.Statement {
	return i.current
}

// Err returns the first decoding or read error.
func (i *Iterator) Err() error {
	return i.err
}

// Close closes the iterator
func (i *Iterator) Close() error {
	i.it.Close()
	i.txn.Discard()
	return nil
}

// encode stores the four terms as length-prefixed strings.
func encode(s rdf.Statement) []byte {
	buf := make([]byte, 0, len(s.S)+len(s.P)+len(s.O)+len(s.G)+4*binary.MaxVarintLen32)
	for _, term := range [4]string{s.S, s.P, s.O, s.G} {
		buf = binary.AppendUvarint(buf, uint64(len(term)))
		buf = append(buf, term...)
	}
	return buf
}

func decode(buf []byte) (rdf.Statement, error) {
	var terms [4]string
	for i := range terms {
		n, size := binary.Uvarint(buf)
		if size <= 0 || uint64(len(buf)-size) < n {
			return rdf.Statement{}, ErrCorrupt
		}
		terms[i] = string(buf[size : size+int(n)])
		buf = buf[size+int(n):]
	}
	if len(buf) != 0 {
		return rdf.Statement{}, ErrCorrupt
	}
	return rdf.Statement{S: terms[0], P: terms[1], O: terms[2], G: terms[3]}, nil
}
