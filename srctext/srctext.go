// Package srctext defines the Source input handle and the content-addressing
// scheme used to identify sources and modules. The concrete storage backing
// a Source (editor buffer, VFS, etc.) is an external collaborator; this
// package only fixes the interface and supplies the two simplest concrete
// implementations a caller needs to get started.
package srctext

import (
	"fmt"
	"os"

	"lukechampine.com/blake3"
)

// Source is the only observable of a source input handle: its raw text.
type Source interface {
	Text() string
}

// stringSource is an in-memory Source, useful for tests and one-shot CLI use.
type stringSource struct {
	text string
}

// FromString wraps s as a Source.
func FromString(s string) Source {
	return stringSource{text: s}
}

func (s stringSource) Text() string {
	return s.text
}

// fileSource reads its backing file once, at construction time.
type fileSource struct {
	path string
	text string
}

// FromFile reads path and returns a Source over its contents.
func FromFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("srctext: reading %s: %w", path, err)
	}
	return fileSource{path: path, text: string(data)}, nil
}

func (s fileSource) Text() string {
	return s.text
}

// Path returns the backing file path.
func (s fileSource) Path() string {
	return s.path
}

// Digest is a 32-byte BLAKE3 content hash, the recommended identity scheme
// for modules and the cache key the memo package keys stages on.
type Digest [32]byte

// String renders the digest as hex.
func (d Digest) String() string {
	return fmt.Sprintf("%x", [32]byte(d))
}

// DigestOf hashes a Source's text.
func DigestOf(src Source) Digest {
	return DigestString(src.Text())
}

// DigestString hashes a raw string directly, useful when a stage's cache key
// is derived from something other than a whole Source (e.g. one chunk's text).
func DigestString(s string) Digest {
	return Digest(blake3.Sum256([]byte(s)))
}
