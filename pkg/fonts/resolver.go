// Package fonts locates TrueType/OpenType font files on the host system
// from a human-readable family name.
//
// Resolution is a heuristic over file names, not a font database lookup:
// when the requested family is ambiguous the resolver may pick a sibling
// style of the same family.
package fonts

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// NotFoundError reports that no installed font file matched a family name.
type NotFoundError struct {
	Family string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("font %q not found in system fonts (run with --debug for the directories and candidates searched)", e.Family)
}

// Candidate is a font file matched during a resolution, with its ranking score.
type Candidate struct {
	Name  string
	Path  string
	Score int
}

// Preferred style keywords, most to least preferred. The first one found in a
// file name contributes a bonus of 100 minus its index.
var stylePriorities = []string{
	"regular",
	"rg",
	"normal",
	"book",
	"medium",
	"roman",
	"standard",
}

// Style keywords that mark a variant cut. Each occurrence costs 50 points.
var variantStyles = []string{
	"italic",
	"oblique",
	"bold",
	"light",
	"thin",
	"heavy",
	"black",
	"condensed",
	"expanded",
	"narrow",
	"wide",
}

// Resolver finds font files by family name. Resolved paths are memoized per
// family so repeated lookups in a batch walk the filesystem once.
type Resolver struct {
	logger *log.Logger
	dirs   []string

	mu    sync.Mutex
	cache map[string]string
}

// NewResolver creates a Resolver. A nil logger disables diagnostics.
func NewResolver(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		logger: logger,
		dirs:   SystemFontDirs(),
		cache:  make(map[string]string),
	}
}

// SetSearchDirs replaces the directories Resolve searches. Mainly for tests
// and sandboxed environments.
func (r *Resolver) SetSearchDirs(dirs []string) {
	r.dirs = dirs
}

// SystemFontDirs returns the font directories searched on this platform.
func SystemFontDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		return []string{filepath.Join(windir, "Fonts")}
	default:
		home, _ := os.UserHomeDir()
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".fonts"),
		}
	}
}

// Resolve returns the path of the best-matching font file for a family name.
// It returns a *NotFoundError when nothing on the system matches.
func (r *Resolver) Resolve(family string) (string, error) {
	r.mu.Lock()
	if path, ok := r.cache[family]; ok {
		r.mu.Unlock()
		return path, nil
	}
	r.mu.Unlock()

	path, err := r.ResolveIn(family, r.dirs)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cache[family] = path
	r.mu.Unlock()
	return path, nil
}

// ResolveIn resolves a family name against an explicit list of directories.
func (r *Resolver) ResolveIn(family string, dirs []string) (string, error) {
	variants := NameVariants(family)

	r.logger.Debug("searching for font", "family", family, "dirs", dirs, "variants", variants)

	var matches []Candidate
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}

		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}

			name := d.Name()
			ext := strings.ToLower(filepath.Ext(name))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}

			lower := strings.ToLower(name)
			for _, v := range variants {
				if strings.Contains(lower, strings.ToLower(v)) {
					matches = append(matches, Candidate{Name: name, Path: path})
					break
				}
			}
			return nil
		})
	}

	if len(matches) == 0 {
		return "", &NotFoundError{Family: family}
	}

	for i := range matches {
		matches[i].Score = ScoreCandidate(family, matches[i].Name)
	}

	// Stable so ties keep enumeration order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	for _, m := range matches {
		r.logger.Debug("font candidate", "file", m.Name, "score", m.Score)
	}
	r.logger.Debug("selected font", "path", matches[0].Path)

	return matches[0].Path, nil
}

// NameVariants builds the file-name variants tried for a family name:
// the original, spaces removed, spaces replaced by underscore and hyphen,
// and the first word alone.
func NameVariants(family string) []string {
	words := strings.Fields(family)
	variants := []string{
		family,
		strings.ReplaceAll(family, " ", ""),
		strings.ReplaceAll(family, " ", "_"),
		strings.ReplaceAll(family, " ", "-"),
	}
	if len(words) > 0 {
		variants = append(variants, words[0])
	}
	variants = append(variants, strings.Join(words, ""))
	return variants
}

// ScoreCandidate ranks a matched font file name for a family. An exact
// "<family>.ttf" or "<family>.otf" match scores 1000 outright. Otherwise the
// first preferred style keyword adds up to 100, each variant style keyword
// subtracts 50, and longer names lose points so plainer cuts win ties.
func ScoreCandidate(family, fileName string) int {
	lower := strings.ToLower(fileName)
	familyLower := strings.ToLower(family)

	if lower == familyLower+".ttf" || lower == familyLower+".otf" {
		return 1000
	}

	score := 0
	for i, style := range stylePriorities {
		if strings.Contains(lower, style) {
			score += 100 - i
			break
		}
	}

	for _, style := range variantStyles {
		if strings.Contains(lower, style) {
			score -= 50
		}
	}

	score -= len(lower)

	return score
}
