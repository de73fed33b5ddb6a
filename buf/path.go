package buf

import (
	"path/filepath"
	"strings"

	"github.com/kornnellio/ebpfcore/bpferrs"
)

// SecureJoin joins base and rel, refusing the result if rel attempts to
// escape base via ".." traversal. Used for bpffs pin paths derived from
// caller-supplied strings.
func SecureJoin(base, rel string) (string, error) {
	cleanedBase := filepath.Clean(base)
	joined := filepath.Join(cleanedBase, rel)

	if joined != cleanedBase && !strings.HasPrefix(joined, cleanedBase+string(filepath.Separator)) {
		return "", bpferrs.WrapWithDetail(nil, bpferrs.ErrInvalidShape,
			"buf.SecureJoin", "path escapes base directory: "+rel)
	}
	return joined, nil
}
