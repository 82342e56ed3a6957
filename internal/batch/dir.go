package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dir is a directory of batch files.
type Dir struct {
	root string
}

// NewDir returns the batch source rooted at root. The directory must exist.
func NewDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open batch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open batch dir: %s is not a directory", root)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory path.
func (d *Dir) Root() string {
	return d.root
}

// List returns the names of the .json files in the directory, ordered by
// the number their names start with.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("list batch dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	Sort(names)

	slog.Debug("batch files listed", "dir", d.root, "files", len(names))
	return names, nil
}

// Load reads and decodes one batch file by name.
func (d *Dir) Load(name string) (Batch, error) {
	data, err := os.ReadFile(filepath.Join(d.root, name))
	if err != nil {
		return Batch{}, fmt.Errorf("%w %s: %v", ErrInvalid, name, err)
	}
	return Decode(name, data)
}

// Sort orders batch file names in place. Names starting with digits come
// first, by numeric value; ties and names without a leading number fall back
// to plain string order.
func Sort(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return Less(names[i], names[j])
	})
}

// Less reports whether batch name a sorts before b.
func Less(a, b string) bool {
	na, nb := leadingDigits(a), leadingDigits(b)
	switch {
	case na != "" && nb != "":
		if c := compareDigits(na, nb); c != 0 {
			return c < 0
		}
	case na != "":
		return true
	case nb != "":
		return false
	}
	return a < b
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// compareDigits compares two decimal strings by value without converting
// them, so arbitrarily long prefixes still order correctly.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
