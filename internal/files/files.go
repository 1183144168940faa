// Package files finds files under the user's roots by spoken name and
// opens the chosen one with the desktop's default handler.
package files

import (
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	log "log/slog"

	"github.com/sahilm/fuzzy"
)

// Index walks a set of root directories looking for files whose base
// name contains the spoken term. Hidden directories are not descended
// into unless they are a root themselves.
type Index struct {
	roots      []string
	maxResults int
	open       func(path string) error
}

func NewIndex(roots []string, maxResults int) *Index {
	if maxResults <= 0 {
		maxResults = 20
	}

	return &Index{
		roots:      append([]string(nil), roots...),
		maxResults: maxResults,
		open:       xdgOpen,
	}
}

// Search returns up to maxResults paths, best name matches first.
func (ix *Index) Search(term string) ([]string, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, nil
	}

	var found []string

	for _, root := range ix.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are skipped, not fatal.
				return nil
			}

			name := d.Name()

			if d.IsDir() {
				if path != root && strings.HasPrefix(name, ".") {
					return fs.SkipDir
				}
				return nil
			}

			if strings.Contains(strings.ToLower(name), term) {
				found = append(found, path)
				if len(found) >= ix.maxResults {
					return fs.SkipAll
				}
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}

		if len(found) >= ix.maxResults {
			break
		}
	}

	return rank(term, found), nil
}

// Open hands the path to the desktop and returns without waiting.
func (ix *Index) Open(path string) error {
	return ix.open(path)
}

// rank orders paths by how well their base name matches the term.
// Paths the scorer rejects keep their walk order at the tail.
func rank(term string, paths []string) []string {
	if len(paths) < 2 {
		return paths
	}

	matches := fuzzy.FindFrom(term, nameSource(paths))

	ordered := make([]string, 0, len(paths))
	seen := make(map[int]bool, len(matches))

	for _, m := range matches {
		ordered = append(ordered, paths[m.Index])
		seen[m.Index] = true
	}
	for i, p := range paths {
		if !seen[i] {
			ordered = append(ordered, p)
		}
	}

	return ordered
}

// nameSource exposes base names to the fuzzy matcher.
type nameSource []string

func (s nameSource) String(i int) string { return strings.ToLower(filepath.Base(s[i])) }
func (s nameSource) Len() int            { return len(s) }

func xdgOpen(target string) error {
	cmd := exec.Command("xdg-open", target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("xdg-open %s: %w", target, err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("xdg-open exited", "target", target, "err", err)
		}
	}()

	return nil
}
