package interfaces

import (
	"fmt"
	"sort"
	"strings"
)

// DeletionBlockedError reports rows that still reference a resource being
// deleted.
type DeletionBlockedError struct {
	Resource   string
	References map[string]int64
}

func (e *DeletionBlockedError) Error() string {
	return fmt.Sprintf("%s is still referenced by %s", e.Resource, e.Summary())
}

// Summary lists the reference counts by kind, e.g. "2 questions, 1 topics".
func (e *DeletionBlockedError) Summary() string {
	keys := make([]string, 0, len(e.References))
	for k := range e.References {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", e.References[k], k))
	}
	return strings.Join(parts, ", ")
}
