package wordlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RegisterDir adds one pack per <code>.txt file in dir. Codes that are
// already registered are left alone and returned as skipped. A missing
// directory registers nothing.
func (r *Registry) RegisterDir(dir string) (added, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read word list directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		code := strings.TrimSuffix(name, ".txt")
		if _, ok := r.packs[code]; ok {
			skipped = append(skipped, code)
			continue
		}
		words, err := LoadWords(filepath.Join(dir, name))
		if err != nil {
			return added, skipped, fmt.Errorf("failed to load %s: %w", name, err)
		}
		words = Filter(words, FilterForLang(code))
		if len(words) == 0 {
			return added, skipped, fmt.Errorf("word list %s has no usable words", name)
		}
		if err := r.Register(Pack{Name: code, Code: code, Words: words}); err != nil {
			return added, skipped, err
		}
		added = append(added, code)
	}
	return added, skipped, nil
}
