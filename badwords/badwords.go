package badwords

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/joy095/fixitnow/logger"
)

// Filter is a case-insensitive word list used to moderate review comments.
// It is safe for concurrent use.
type Filter struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

func New(words ...string) *Filter {
	f := &Filter{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		_ = f.Add(w)
	}
	return f
}

// Load replaces the list with one word per line from r. Blank lines and
// lines starting with # are skipped.
func (f *Filter) Load(r io.Reader) error {
	next := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		next[strings.ToLower(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read bad words: %w", err)
	}

	f.mu.Lock()
	f.words = next
	f.mu.Unlock()
	return nil
}

// LoadFile loads the list from a text file.
func (f *Filter) LoadFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to read bad words file: %w", err)
	}
	defer file.Close()

	if err := f.Load(file); err != nil {
		return err
	}
	logger.InfoLogger.Infof("Loaded %d bad words from %s", f.Len(), filename)
	return nil
}

// Contains reports whether any word of text is on the list.
func (f *Filter) Contains(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})

	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, word := range words {
		if _, found := f.words[word]; found {
			return true
		}
	}
	return false
}

func (f *Filter) Add(word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return errors.New("bad word must not be empty")
	}
	f.mu.Lock()
	f.words[word] = struct{}{}
	f.mu.Unlock()
	return nil
}

// Remove reports whether word was on the list.
func (f *Filter) Remove(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, found := f.words[word]; !found {
		return false
	}
	delete(f.words, word)
	return true
}

func (f *Filter) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.words)
}
