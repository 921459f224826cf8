package output

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Checkpoint stores the last race URL written to an output file.
type Checkpoint struct {
	path string
}

// CheckpointFor is the checkpoint kept beside an output file.
func CheckpointFor(output string) *Checkpoint {
	return &Checkpoint{path: output + ".progress"}
}

// Load returns "" when no checkpoint exists.
func (c *Checkpoint) Load() (string, error) {
	b, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("output: checkpoint: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Save replaces the checkpoint through a rename.
func (c *Checkpoint) Save(url string) error {
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(url+"\n"), 0o644); err != nil {
		return fmt.Errorf("output: checkpoint: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("output: checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint once a run completes.
func (c *Checkpoint) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("output: checkpoint: %w", err)
	}
	return nil
}

// After returns the urls following last. An unknown or empty last keeps
// them all.
func After(urls []string, last string) []string {
	if last == "" {
		return urls
	}
	for i, u := range urls {
		if u == last {
			return urls[i+1:]
		}
	}
	return urls
}
