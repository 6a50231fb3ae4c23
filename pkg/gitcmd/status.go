package gitcmd

import "strings"

// StatusEntry is one line of `git status --porcelain`: a two-letter
// XY code and the path it applies to.
type StatusEntry struct {
	Code string
	Path string
}

// Unmerged porcelain codes. These mark conflicts left behind by a failed
// merge; detection is a typed check on the parsed status, never substring
// matching against raw command output.
var unmergedCodes = map[string]bool{
	"DD": true, // both deleted
	"AU": true, // added by us
	"UD": true, // deleted by them
	"UA": true, // added by them
	"DU": true, // deleted by us
	"AA": true, // both added
	"UU": true, // both modified
}

// IsUnmerged reports whether the entry marks a conflicted path
func (e StatusEntry) IsUnmerged() bool {
	return unmergedCodes[e.Code]
}

// ParseStatus parses porcelain v1 output into entries
func ParseStatus(output string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(output, "\n") {
		// XY<space>path; a line shorter than 4 runes carries no path
		if len(line) < 4 {
			continue
		}
		code := line[:2]
		path := strings.TrimSpace(line[3:])
		// renames are reported as "old -> new"; track the new path
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		path = strings.Trim(path, `"`)
		if path == "" {
			continue
		}
		entries = append(entries, StatusEntry{Code: code, Path: path})
	}
	return entries
}

// ConflictedPaths filters the unmerged paths out of a status listing
func ConflictedPaths(entries []StatusEntry) []string {
	var paths []string
	for _, e := range entries {
		if e.IsUnmerged() {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// HasConflicts reports whether any entry is unmerged
func HasConflicts(entries []StatusEntry) bool {
	for _, e := range entries {
		if e.IsUnmerged() {
			return true
		}
	}
	return false
}
