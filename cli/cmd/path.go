package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/smscr/pkg"
)

// PathEnv is the environment variable holding the script search path, a
// list of directories separated by [os.PathListSeparator].
var PathEnv = strings.ToUpper(pkg.Name) + "_PATH"

// searchPath returns the directories searched for scripts named without a
// directory: dirs in order, followed by the entries of [PathEnv]. Duplicates
// and entries that are not directories are dropped.
func searchPath(dirs ...string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	seen := make(map[string]struct{})

	var path []string

	for _, dir := range filepath.SplitList(joined) {
		if _, dup := seen[dir]; dup || !isDir(dir) {
			continue
		}

		seen[dir] = struct{}{}
		path = append(path, dir)
	}

	return path
}

func isDir(path string) bool {
	fi, err := os.Stat(path)

	return err == nil && fi.IsDir()
}

// locate returns the file a source argument refers to. Stdin, names with a
// directory component, and names of existing files are returned unchanged.
// Other names are looked up in path, and returned unchanged if not found.
func locate(name string, path []string) string {
	if name == stdinSource || strings.ContainsRune(name, filepath.Separator) {
		return name
	}

	if _, err := os.Stat(name); err == nil {
		return name
	}

	for _, dir := range path {
		if candidate := filepath.Join(dir, name); !isDir(candidate) {
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}

	return name
}
