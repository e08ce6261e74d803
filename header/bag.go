package header

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"
)

// Kind identifies which side of an exchange a Bag describes.
type Kind string

const (
	KindGeneric  Kind = ""
	KindRequest  Kind = "request"
	KindResponse Kind = "response"
)

// ErrInvalidKind is returned when a Bag is constructed with an unknown Kind.
var ErrInvalidKind = errors.New("header: kind must be request, response or empty")

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindGeneric, KindRequest, KindResponse:
		return true
	}
	return false
}

// Bag is a case-insensitive multimap of header names to values. Names are
// lower-cased on every access; values are stored as given, in insertion order.
//
// A Bag is not safe for concurrent mutation.
type Bag struct {
	kind         Kind
	headers      map[string][]string
	cacheControl map[string]string
}

// New builds a Bag from values. A scalar header is a single-element slice.
func New(values map[string][]string, kind Kind) (*Bag, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w (got: %q)", ErrInvalidKind, string(kind))
	}
	b := &Bag{kind: kind}
	b.Replace(values)
	return b, nil
}

// MustNew is like New but panics on an invalid kind.
func MustNew(values map[string][]string, kind Kind) *Bag {
	b, err := New(values, kind)
	if err != nil {
		panic(err)
	}
	return b
}

// FromMap builds a Bag from single-valued headers.
func FromMap(values map[string]string, kind Kind) (*Bag, error) {
	multi := make(map[string][]string, len(values))
	for k, v := range values {
		multi[k] = []string{v}
	}
	return New(multi, kind)
}

// FromHTTP builds a Bag from an http.Header. Names sharing a lower-case form
// are merged in sorted-key order.
func FromHTTP(h http.Header, kind Kind) (*Bag, error) {
	b, err := New(nil, kind)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.SetValues(k, h[k], false)
	}
	return b, nil
}

// Kind returns the role this bag was created for.
func (b *Bag) Kind() Kind { return b.kind }

// All returns a copy of every header, keyed by lower-cased name.
func (b *Bag) All() map[string][]string {
	out := make(map[string][]string, len(b.headers))
	for k, v := range b.headers {
		out[k] = slices.Clone(v)
	}
	return out
}

// Keys returns the normalized header names in sorted order.
func (b *Bag) Keys() []string {
	keys := make([]string, 0, len(b.headers))
	for k := range b.headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of distinct header names.
func (b *Bag) Len() int { return len(b.headers) }

// Replace discards every header and sets each pair from values.
func (b *Bag) Replace(values map[string][]string) {
	b.headers = make(map[string][]string, len(values))
	b.cacheControl = nil
	for k, v := range values {
		b.SetValues(k, v, true)
	}
}

// Lookup returns the first value for name and whether name is present.
func (b *Bag) Lookup(name string) (string, bool) {
	v, ok := b.headers[normalize(name)]
	if !ok || len(v) == 0 {
		return "", ok
	}
	return v[0], true
}

// Get returns the first value for name, or "" if absent.
func (b *Bag) Get(name string) string {
	v, _ := b.Lookup(name)
	return v
}

// GetDefault returns the first value for name, or def if name is absent.
func (b *Bag) GetDefault(name, def string) string {
	if v, ok := b.Lookup(name); ok {
		return v
	}
	return def
}

// Values returns every value stored for name in insertion order, or nil.
func (b *Bag) Values(name string) []string {
	v, ok := b.headers[normalize(name)]
	if !ok {
		return nil
	}
	return slices.Clone(v)
}

// ValuesDefault is like Values but returns []string{def} when name is absent.
func (b *Bag) ValuesDefault(name, def string) []string {
	if v, ok := b.headers[normalize(name)]; ok {
		return slices.Clone(v)
	}
	return []string{def}
}

// Set replaces all values for name with value.
func (b *Bag) Set(name, value string) {
	b.SetValues(name, []string{value}, true)
}

// Add appends value to the values for name.
func (b *Bag) Add(name, value string) {
	b.SetValues(name, []string{value}, false)
}

// SetValues stores values under name. With replace, or when name is absent,
// the existing values are overwritten; otherwise values are appended.
func (b *Bag) SetValues(name string, values []string, replace bool) {
	if b.headers == nil {
		b.headers = make(map[string][]string)
	}
	key := normalize(name)
	existing, ok := b.headers[key]
	if replace || !ok {
		b.headers[key] = slices.Clone(values)
		if b.headers[key] == nil {
			b.headers[key] = []string{}
		}
	} else {
		b.headers[key] = append(existing, values...)
	}
	if key == cacheControlKey {
		b.cacheControl = parseCacheControl(strings.Join(b.headers[key], ", "))
	}
}

// Has reports whether name is present.
func (b *Bag) Has(name string) bool {
	_, ok := b.headers[normalize(name)]
	return ok
}

// Contains reports whether value is one of the values stored for name.
func (b *Bag) Contains(name, value string) bool {
	return slices.Contains(b.headers[normalize(name)], value)
}

// Remove deletes name and all its values.
func (b *Bag) Remove(name string) {
	key := normalize(name)
	delete(b.headers, key)
	if key == cacheControlKey {
		b.cacheControl = nil
	}
}

// Clone returns an independent copy of the bag.
func (b *Bag) Clone() *Bag {
	c := &Bag{kind: b.kind, headers: b.All()}
	if b.cacheControl != nil {
		c.cacheControl = make(map[string]string, len(b.cacheControl))
		for k, v := range b.cacheControl {
			c.cacheControl[k] = v
		}
	}
	return c
}

// Header converts the bag to an http.Header with canonical MIME keys.
func (b *Bag) Header() http.Header {
	h := make(http.Header, len(b.headers))
	for k, v := range b.headers {
		h[http.CanonicalHeaderKey(k)] = slices.Clone(v)
	}
	return h
}

// Date parses the first value of name as an HTTP date. It returns the zero
// time and no error when the header is absent.
func (b *Bag) Date(name string) (time.Time, error) {
	v, ok := b.Lookup(name)
	if !ok {
		return time.Time{}, nil
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("header: %s is not a valid HTTP date: %w", normalize(name), err)
	}
	return t, nil
}

func normalize(name string) string {
	return strings.ToLower(name)
}
