// Package source locates the user-code files referenced by a stack trace
// and extracts bounded windows of surrounding lines for diagnosis.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/bootwatch/internal/models"
)

const (
	// DefaultWindowRadius is the number of lines kept above and below the
	// target line.
	DefaultWindowRadius = 10

	// MaxWindows caps how many code windows one extraction returns, to
	// bound both I/O cost and the size of remote analysis payloads.
	MaxWindows = 3

	// maxSearchDepth bounds the fallback filename search below each root.
	maxSearchDepth = 8
)

// conventionalRoots are the source layouts tried, in order, under each
// search root before falling back to a recursive filename search.
var conventionalRoots = []string{
	"src/main/java",
	"src/main/kotlin",
	"src/main/groovy",
	"src/main/scala",
	"src/test/java",
	"src/test/kotlin",
	"src",
}

// skippedDirs are never descended into during the fallback search.
var skippedDirs = map[string]bool{
	".git":         true,
	".gradle":      true,
	".idea":        true,
	".mvn":         true,
	"build":        true,
	"target":       true,
	"out":          true,
	"bin":          true,
	"node_modules": true,
}

// Resolver extracts code windows for stack frames from a set of workspace
// search roots. The zero value is not usable; call NewResolver.
type Resolver struct {
	searchRoots []string
	radius      int
}

// NewResolver creates a resolver over the given workspace roots. A radius
// of 0 means DefaultWindowRadius.
func NewResolver(searchRoots []string, radius int) *Resolver {
	if radius <= 0 {
		radius = DefaultWindowRadius
	}
	return &Resolver{searchRoots: searchRoots, radius: radius}
}

// Extract walks the record's frame lines in order and returns up to
// MaxWindows code windows for user-code frames that resolve to readable
// files. Frames that do not parse, belong to framework namespaces, repeat a
// (class, line) pair, or cannot be located are skipped silently; partial
// and empty results are normal.
func (r *Resolver) Extract(frameLines []string) []models.CodeWindow {
	var windows []models.CodeWindow
	seen := make(map[string]bool)

	for _, line := range frameLines {
		if len(windows) >= MaxWindows {
			break
		}
		frame, ok := ParseFrame(line)
		if !ok || IsFrameworkFrame(frame) {
			continue
		}
		key := fmt.Sprintf("%s:%d", frame.ClassName, frame.Line)
		if seen[key] {
			continue
		}
		seen[key] = true

		path := r.locate(frame)
		if path == "" {
			continue
		}
		snippet, ok := readWindow(path, frame.Line, r.radius)
		if !ok {
			continue
		}
		windows = append(windows, models.CodeWindow{
			ClassName:  frame.ClassName,
			MethodName: frame.MethodName,
			FileName:   frame.FileName,
			Line:       frame.Line,
			Snippet:    snippet,
		})
	}
	return windows
}

// locate resolves a frame to a source file path. Conventional layouts are
// tried first (package directory under each well-known source root), then a
// bounded-depth filename search under each search root.
func (r *Resolver) locate(frame Frame) string {
	pkgDir := frame.packageDir()
	for _, root := range r.searchRoots {
		for _, conv := range conventionalRoots {
			candidate := filepath.Join(root, conv, pkgDir, frame.FileName)
			if fileExists(candidate) {
				return candidate
			}
		}
	}
	for _, root := range r.searchRoots {
		if found := findByName(root, frame.FileName, maxSearchDepth); found != "" {
			return found
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findByName searches for a file by base name below root, at most depth
// levels deep, skipping build-output and VCS directories.
func findByName(root, name string, depth int) string {
	if depth < 0 {
		return ""
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if e.Name() == name {
			return filepath.Join(root, e.Name())
		}
	}
	for _, e := range entries {
		if !e.IsDir() || skippedDirs[e.Name()] || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if found := findByName(filepath.Join(root, e.Name()), name, depth-1); found != "" {
			return found
		}
	}
	return ""
}

// readWindow reads radius lines above and below the 1-based target line,
// clamped to the file, and formats each with its absolute line number. The
// target line is marked with ">".
func readWindow(path string, target, radius int) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if target > len(lines) {
		return "", false
	}

	start := target - radius
	if start < 1 {
		start = 1
	}
	end := target + radius
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for n := start; n <= end; n++ {
		marker := "  "
		if n == target {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%4d: %s\n", marker, n, lines[n-1])
	}
	return b.String(), true
}
