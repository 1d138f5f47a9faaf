// Package storage implements a file-backed store for heaan ciphertexts,
// keys and bootstrapping contexts.
//
// Each object is stored in its own file as
//
//	[32]byte parameters fingerprint | [32]byte blake3 digest | payload
//
// where the digest is taken over the fingerprint and the payload.
package storage

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Pro7ech/heaan/heaan"
	"github.com/zeebo/blake3"
)

const (
	digestSize = 32
	headerSize = 2 * digestSize
	extension  = ".bin"
)

var (
	// ErrIntegrity is returned when a stored object does not match its digest.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrParametersMismatch is returned when a stored object was written
	// under different parameters.
	ErrParametersMismatch = errors.New("parameters mismatch")

	// ErrInvalidID is returned for identifiers that are not plain file names.
	ErrInvalidID = errors.New("invalid identifier")
)

// FileStore stores serialized objects in a directory.
type FileStore struct {
	dir         string
	fingerprint [32]byte
}

// NewFileStore creates a new [FileStore] rooted at dir, which is created if needed.
// Objects are bound to params through its fingerprint.
func NewFileStore(dir string, params heaan.Parameters) (fs *FileStore, err error) {
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot NewFileStore: %w", err)
	}
	return &FileStore{dir: dir, fingerprint: params.Fingerprint()}, nil
}

// Dir returns the root directory of the receiver.
func (fs *FileStore) Dir() string {
	return fs.dir
}

func (fs *FileStore) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(fs.dir, id+extension), nil
}

func (fs *FileStore) digest(payload []byte) []byte {
	hasher := blake3.New()
	hasher.Write(fs.fingerprint[:])
	hasher.Write(payload)
	return hasher.Sum(nil)[:digestSize]
}

// Write stores ct under id, overwriting any previous object.
func (fs *FileStore) Write(ct *heaan.Ciphertext, id string) (err error) {
	if err = fs.write(ct, id); err != nil {
		return fmt.Errorf("cannot Write: %w", err)
	}
	return
}

// Read reads the ciphertext stored under id.
func (fs *FileStore) Read(id string) (ct *heaan.Ciphertext, err error) {
	ct = new(heaan.Ciphertext)
	if err = fs.read(id, ct); err != nil {
		return nil, fmt.Errorf("cannot Read: %w", err)
	}
	return
}

// WriteKey stores key under id, overwriting any previous object.
func (fs *FileStore) WriteKey(key *heaan.Key, id string) (err error) {
	if err = fs.write(key, id); err != nil {
		return fmt.Errorf("cannot WriteKey: %w", err)
	}
	return
}

// ReadKey reads the key stored under id.
func (fs *FileStore) ReadKey(id string) (key *heaan.Key, err error) {
	key = new(heaan.Key)
	if err = fs.read(id, key); err != nil {
		return nil, fmt.Errorf("cannot ReadKey: %w", err)
	}
	return
}

// WriteBootContext stores bc under id, overwriting any previous object.
func (fs *FileStore) WriteBootContext(bc *heaan.BootContext, id string) (err error) {
	if err = fs.write(bc, id); err != nil {
		return fmt.Errorf("cannot WriteBootContext: %w", err)
	}
	return
}

// ReadBootContext reads the [heaan.BootContext] stored under id.
func (fs *FileStore) ReadBootContext(id string) (bc *heaan.BootContext, err error) {
	bc = new(heaan.BootContext)
	if err = fs.read(id, bc); err != nil {
		return nil, fmt.Errorf("cannot ReadBootContext: %w", err)
	}
	return
}

// Delete removes the object stored under id.
func (fs *FileStore) Delete(id string) (err error) {
	var path string
	if path, err = fs.path(id); err != nil {
		return fmt.Errorf("cannot Delete: %w", err)
	}
	if err = os.Remove(path); err != nil {
		return fmt.Errorf("cannot Delete: %w", err)
	}
	return
}

// List returns the identifiers of the stored objects.
func (fs *FileStore) List() (ids []string, err error) {
	var entries []os.DirEntry
	if entries, err = os.ReadDir(fs.dir); err != nil {
		return nil, fmt.Errorf("cannot List: %w", err)
	}
	for _, e := range entries {
		if name := e.Name(); !e.IsDir() && strings.HasSuffix(name, extension) {
			ids = append(ids, strings.TrimSuffix(name, extension))
		}
	}
	return
}

func (fs *FileStore) write(obj encoding.BinaryMarshaler, id string) (err error) {

	var path string
	if path, err = fs.path(id); err != nil {
		return
	}

	var payload []byte
	if payload, err = obj.MarshalBinary(); err != nil {
		return
	}

	data := make([]byte, 0, headerSize+len(payload))
	data = append(data, fs.fingerprint[:]...)
	data = append(data, fs.digest(payload)...)
	data = append(data, payload...)

	// Readers never observe a partially written object.
	var f *os.File
	if f, err = os.CreateTemp(fs.dir, "."+id+"-*"); err != nil {
		return
	}

	tmp := f.Name()

	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return
	}

	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return
	}

	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
	}

	return
}

func (fs *FileStore) read(id string, obj encoding.BinaryUnmarshaler) (err error) {

	var path string
	if path, err = fs.path(id); err != nil {
		return
	}

	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}

	if len(data) < headerSize {
		return fmt.Errorf("%w: %s: truncated header", ErrIntegrity, id)
	}

	if !bytes.Equal(data[:digestSize], fs.fingerprint[:]) {
		return fmt.Errorf("%w: %s", ErrParametersMismatch, id)
	}

	payload := data[headerSize:]

	if !bytes.Equal(data[digestSize:headerSize], fs.digest(payload)) {
		return fmt.Errorf("%w: %s", ErrIntegrity, id)
	}

	return obj.UnmarshalBinary(payload)
}
