package wordlist

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
)

// DefaultLanguageCode is used when no language is configured.
const DefaultLanguageCode = "en-US"

//go:embed data/*.txt
var builtinData embed.FS

var builtinPacks = []struct {
	code string
	name string
}{
	{code: "en-US", name: "English"},
	{code: "pt-CPLP", name: "Português"},
	{code: "id-ID", name: "Bahasa Indonesia"},
	{code: "tet-TL", name: "Tetun"},
}

var (
	builtinOnce sync.Once
	builtinReg  *Registry
	builtinErr  error
)

// Builtin returns a fresh registry preloaded with the embedded packs. Callers
// may Register custom packs on it before sharing it.
func Builtin() (*Registry, error) {
	packs, err := BuiltinPacks()
	if err != nil {
		return nil, err
	}
	return NewRegistry(packs...)
}

// BuiltinPacks returns the embedded packs, parsed once per process.
func BuiltinPacks() ([]Pack, error) {
	builtinOnce.Do(func() {
		builtinReg, builtinErr = loadBuiltin()
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	packs := make([]Pack, 0, len(builtinReg.order))
	for _, code := range builtinReg.order {
		packs = append(packs, builtinReg.packs[code])
	}
	return packs, nil
}

func loadBuiltin() (*Registry, error) {
	reg := &Registry{packs: map[string]Pack{}}
	for _, entry := range builtinPacks {
		data, err := builtinData.ReadFile("data/" + entry.code + ".txt")
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in pack %s: %w", entry.code, err)
		}
		words, err := ReadWords(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse built-in pack %s: %w", entry.code, err)
		}
		if err := reg.Register(Pack{Name: entry.name, Code: entry.code, Words: words}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
