package header

import (
	"sort"
	"strings"
)

const cacheControlKey = "cache-control"

// CacheControl returns a copy of the parsed Cache-Control directives.
// Directives without a value map to "".
func (b *Bag) CacheControl() map[string]string {
	out := make(map[string]string, len(b.cacheControl))
	for k, v := range b.cacheControl {
		out[k] = v
	}
	return out
}

// HasCacheControlDirective reports whether the directive is set.
func (b *Bag) HasCacheControlDirective(key string) bool {
	_, ok := b.cacheControl[strings.ToLower(key)]
	return ok
}

// CacheControlDirective returns the directive value and whether it is set.
func (b *Bag) CacheControlDirective(key string) (string, bool) {
	v, ok := b.cacheControl[strings.ToLower(key)]
	return v, ok
}

// AddCacheControlDirective sets a directive and rewrites the Cache-Control header.
func (b *Bag) AddCacheControlDirective(key, value string) {
	if b.cacheControl == nil {
		b.cacheControl = make(map[string]string)
	}
	b.cacheControl[strings.ToLower(key)] = value
	b.syncCacheControl()
}

// RemoveCacheControlDirective deletes a directive and rewrites the header.
func (b *Bag) RemoveCacheControlDirective(key string) {
	delete(b.cacheControl, strings.ToLower(key))
	b.syncCacheControl()
}

func (b *Bag) syncCacheControl() {
	if len(b.cacheControl) == 0 {
		delete(b.headers, cacheControlKey)
		return
	}
	if b.headers == nil {
		b.headers = make(map[string][]string)
	}
	b.headers[cacheControlKey] = []string{formatCacheControl(b.cacheControl)}
}

func parseCacheControl(value string) map[string]string {
	directives := make(map[string]string)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		directives[strings.ToLower(strings.TrimSpace(k))] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return directives
}

// formatCacheControl emits directives sorted by name. Values containing
// separators are quoted.
func formatCacheControl(directives map[string]string) string {
	keys := make([]string, 0, len(directives))
	for k := range directives {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := directives[k]
		switch {
		case v == "":
			parts = append(parts, k)
		case strings.ContainsAny(v, " ,;="):
			parts = append(parts, k+`="`+v+`"`)
		default:
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, ", ")
}
