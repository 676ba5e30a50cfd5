package serving

import (
	"iter"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	Separator = "/"
	// DefaultArtifactSuffix marks a directory as a servable model (saved_model.pb).
	DefaultArtifactSuffix = ".pb"
)

// NormalizePrefix appends a trailing separator when missing.
func NormalizePrefix(prefix string) string {
	if !strings.HasSuffix(prefix, Separator) {
		return prefix + Separator
	}
	return prefix
}

// FilterModels yields the unique first-level directory names under prefix
// whose subtree contains an entry ending in suffix, in first-seen order.
// prefix must end with Separator.
func FilterModels(keys iter.Seq[string], prefix string, suffix string) iter.Seq[string] {
	suffix = strings.ToLower(suffix)
	return func(yield func(string) bool) {
		seen := sets.New[string]()
		for key := range keys {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			key = strings.TrimSuffix(key, Separator)
			dirnames := strings.Split(strings.TrimPrefix(key, prefix), Separator)

			// only keys inside a model directory
			if len(dirnames) < 2 || seen.Has(dirnames[0]) {
				continue
			}
			if !containsArtifact(dirnames, suffix) {
				continue
			}
			seen.Insert(dirnames[0])
			if !yield(dirnames[0]) {
				return
			}
		}
	}
}

func containsArtifact(dirnames []string, suffix string) bool {
	for _, d := range dirnames {
		if strings.HasSuffix(strings.ToLower(d), suffix) {
			return true
		}
	}
	return false
}
