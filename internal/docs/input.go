package docs

import (
	"encoding/json"
	"strings"
)

// Input names as the CI workflow declares them.
const (
	InputNewFiles     = "new-files"
	InputUpdatedFiles = "updated-files"
	InputDeletedFiles = "deleted-files"
)

// Changes holds the parsed file lists of one repository event.
type Changes struct {
	New     []string
	Updated []string
	Deleted []string
}

// Upserts returns new files followed by updated files.
func (c Changes) Upserts() []string {
	out := make([]string, 0, len(c.New)+len(c.Updated))
	out = append(out, c.New...)
	return append(out, c.Updated...)
}

// ParseFileList decodes a JSON array of paths. Blank input is an empty list.
func ParseFileList(name, raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(raw), &paths); err != nil {
		return nil, &InputParseError{Input: name, Err: err}
	}
	return paths, nil
}

// ParseChanges parses the new and updated lists. The deleted list is only
// parsed when includeDeleted is set; otherwise it is ignored, malformed or not.
func ParseChanges(newRaw, updatedRaw, deletedRaw string, includeDeleted bool) (Changes, error) {
	var (
		c   Changes
		err error
	)
	if c.New, err = ParseFileList(InputNewFiles, newRaw); err != nil {
		return Changes{}, err
	}
	if c.Updated, err = ParseFileList(InputUpdatedFiles, updatedRaw); err != nil {
		return Changes{}, err
	}
	if !includeDeleted {
		return c, nil
	}
	if c.Deleted, err = ParseFileList(InputDeletedFiles, deletedRaw); err != nil {
		return Changes{}, err
	}
	return c, nil
}
