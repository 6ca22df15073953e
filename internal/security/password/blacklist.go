package password

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Blacklist es un set inmutable de passwords prohibidos (case-insensitive).
type Blacklist struct {
	data map[string]struct{}
}

// LoadBlacklist lee un archivo con un password por línea ('#' comenta).
// path vacío → lista vacía.
func LoadBlacklist(path string) (*Blacklist, error) {
	if strings.TrimSpace(path) == "" {
		return NewBlacklist(), nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readBlacklist(f)
}

// NewBlacklist construye una lista desde valores en memoria.
func NewBlacklist(words ...string) *Blacklist {
	bl := &Blacklist{data: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if s := strings.TrimSpace(strings.ToLower(w)); s != "" {
			bl.data[s] = struct{}{}
		}
	}
	return bl
}

func readBlacklist(r io.Reader) (*Blacklist, error) {
	bl := NewBlacklist()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(strings.ToLower(sc.Text()))
		if s != "" && !strings.HasPrefix(s, "#") {
			bl.data[s] = struct{}{}
		}
	}
	return bl, sc.Err()
}

// Contains es seguro sobre un receiver nil.
func (b *Blacklist) Contains(pwd string) bool {
	if b == nil {
		return false
	}
	_, ok := b.data[strings.ToLower(strings.TrimSpace(pwd))]
	return ok
}

// Len retorna la cantidad de entradas.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}
