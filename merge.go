package tvshell

import "dario.cat/mergo"

// Merge deep-merges sources into dst, left-biased: a field dst already
// defines is never overwritten, and among the sources the first one
// providing a value wins. Nested structs merge recursively; map entries
// merge key-wise. Returns dst for chaining.
//
// Absent or zero fields simply fall through; the built-in fallbacks
// (empty-string template, identity data transform, JSON response type)
// are applied separately at invocation time, so merging is idempotent.
func Merge(dst *PageConfig, sources ...*PageConfig) *PageConfig {
	if dst == nil {
		return nil
	}
	for _, src := range sources {
		if src == nil {
			continue
		}
		// mergo only fails on mismatched kinds, which the fixed
		// signature rules out.
		_ = mergo.Merge(dst, *src)
	}
	return dst
}
