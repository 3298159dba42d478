package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// PepperSize is the number of random bytes in a generated pepper.
const PepperSize = 32

// LoadOrGeneratePepper reads the pepper stored at path, creating a fresh one
// (mode 0600) when the file does not exist. Changing the pepper invalidates
// every stored fingerprint.
func LoadOrGeneratePepper(path string) ([]byte, error) {
	path = filepath.Clean(path)

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		return decodePepper(raw)
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("cryptox: read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("cryptox: pepper dir: %w", err)
	}

	pepper := make([]byte, PepperSize)
	if _, err := rand.Read(pepper); err != nil {
		return nil, fmt.Errorf("cryptox: generate pepper: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(pepper)
	if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
		return nil, fmt.Errorf("cryptox: write pepper: %w", err)
	}
	return pepper, nil
}

func decodePepper(raw []byte) ([]byte, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil, errors.New("cryptox: pepper file is empty")
	}

	pepper, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		// Hand-written peppers are used verbatim.
		pepper = []byte(s)
	}
	if len(pepper) > blake2b.Size {
		return nil, fmt.Errorf("cryptox: pepper longer than %d bytes", blake2b.Size)
	}
	return pepper, nil
}
