package header

import (
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestNew_Kinds(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		wantErr bool
	}{
		{"generic", KindGeneric, false},
		{"request", KindRequest, false},
		{"response", KindResponse, false},
		{"unknown", Kind("nope"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bag, err := FromMap(map[string]string{"foo": "bar"}, tc.kind)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidKind) {
					t.Fatalf("expected ErrInvalidKind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bag.Has("foo") {
				t.Error("expected foo to be present")
			}
			if bag.Kind() != tc.kind {
				t.Errorf("expected kind %q, got %q", tc.kind, bag.Kind())
			}
		})
	}
}

func TestMustNew_PanicsOnInvalidKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustNew(nil, Kind("nope"))
}

func TestAll(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"foo": "bar"})
	if got, want := bag.All(), map[string][]string{"foo": {"bar"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}

	bag = mustFromMap(t, map[string]string{"FOO": "BAR"})
	if got, want := bag.All(), map[string][]string{"foo": {"BAR"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("All() keys should be lower case: got %v, want %v", got, want)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"foo": "bar"})
	all := bag.All()
	all["foo"][0] = "mutated"
	all["new"] = []string{"x"}
	if bag.Get("foo") != "bar" || bag.Has("new") {
		t.Error("mutating All() result must not change the bag")
	}
}

func TestReplace(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"foo": "bar"})
	bag.Replace(map[string][]string{"NOPE": {"BAR"}})

	if got, want := bag.All(), map[string][]string{"nope": {"BAR"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Replace() = %v, want %v", got, want)
	}
	if bag.Has("foo") {
		t.Error("Replace() should drop previous headers")
	}
	if !bag.Has("nope") {
		t.Error("expected nope after Replace()")
	}
}

func TestGet(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"foo": "bar", "fuzz": "bizz"})

	if got := bag.Get("foo"); got != "bar" {
		t.Errorf("Get(foo) = %q", got)
	}
	if got := bag.Get("FoO"); got != "bar" {
		t.Errorf("Get is case-insensitive, got %q", got)
	}
	if got := bag.ValuesDefault("foo", "nope"); !reflect.DeepEqual(got, []string{"bar"}) {
		t.Errorf("ValuesDefault(foo) = %v", got)
	}

	// defaults
	if _, ok := bag.Lookup("none"); ok {
		t.Error("unknown header should not be found")
	}
	if got := bag.Get("none"); got != "" {
		t.Errorf("Get(none) = %q, want empty", got)
	}
	if got := bag.GetDefault("none", "default"); got != "default" {
		t.Errorf("GetDefault(none) = %q", got)
	}
	if got := bag.ValuesDefault("none", "default"); !reflect.DeepEqual(got, []string{"default"}) {
		t.Errorf("ValuesDefault(none) = %v", got)
	}
	if got := bag.Values("none"); got != nil {
		t.Errorf("Values(none) = %v, want nil", got)
	}

	bag.Add("foo", "bor")
	if got := bag.Get("foo"); got != "bar" {
		t.Errorf("Get should return the first value, got %q", got)
	}
	if got := bag.ValuesDefault("foo", "nope"); !reflect.DeepEqual(got, []string{"bar", "bor"}) {
		t.Errorf("ValuesDefault should return all values, got %v", got)
	}
}

func TestSetValues_ReplaceFlag(t *testing.T) {
	bag := MustNew(nil, KindResponse)

	bag.SetValues("X-Thing", []string{"v1"}, false)
	bag.SetValues("x-thing", []string{"v2"}, false)
	if got := bag.Values("X-THING"); !reflect.DeepEqual(got, []string{"v1", "v2"}) {
		t.Fatalf("append: got %v", got)
	}

	bag.SetValues("x-thing", []string{"v3"}, true)
	if got := bag.Values("x-thing"); !reflect.DeepEqual(got, []string{"v3"}) {
		t.Fatalf("replace: got %v", got)
	}

	bag.Set("x-thing", "v4")
	if got := bag.Values("x-thing"); !reflect.DeepEqual(got, []string{"v4"}) {
		t.Fatalf("Set: got %v", got)
	}
}

func TestHas_CaseInsensitive(t *testing.T) {
	bag := MustNew(map[string][]string{"Content-Type": {"text/plain"}}, KindGeneric)
	for _, name := range []string{"content-type", "CONTENT-TYPE", "Content-Type", "cOnTeNt-TyPe"} {
		if !bag.Has(name) {
			t.Errorf("Has(%q) = false", name)
		}
	}
	if bag.Has("content") {
		t.Error("Has must not match prefixes")
	}
}

func TestContains(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"foo": "bar", "fuzz": "bizz"})
	if !bag.Contains("foo", "bar") {
		t.Error("expected foo=bar")
	}
	if !bag.Contains("fuzz", "bizz") {
		t.Error("expected fuzz=bizz")
	}
	if bag.Contains("nope", "nope") {
		t.Error("unknown header should not contain anything")
	}
	if bag.Contains("foo", "nope") {
		t.Error("foo should not contain nope")
	}

	// Multiple values
	bag.Add("foo", "bor")
	if !bag.Contains("foo", "bar") || !bag.Contains("FOO", "bor") {
		t.Error("expected both values to be contained")
	}
	if bag.Contains("foo", "BAR") {
		t.Error("values are case-sensitive")
	}
}

func TestRemove(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"foo": "bar", "baz": "qux"})
	bag.Remove("FOO")
	if bag.Has("foo") {
		t.Error("expected foo to be removed")
	}
	if bag.Len() != 1 {
		t.Errorf("expected 1 header left, got %d", bag.Len())
	}
	if got := bag.Keys(); !reflect.DeepEqual(got, []string{"baz"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestClone_Independent(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"foo": "bar"})
	c := bag.Clone()
	c.Add("foo", "other")
	if len(bag.Values("foo")) != 1 {
		t.Error("clone must not share storage")
	}
}

func TestFromHTTP_AndHeader(t *testing.T) {
	h := http.Header{}
	h.Add("Accept", "text/html")
	h.Add("Accept", "application/json")
	h.Set("Authorization", "Basic abc")

	bag, err := FromHTTP(h, KindRequest)
	if err != nil {
		t.Fatalf("FromHTTP: %v", err)
	}
	if got := bag.Values("accept"); !reflect.DeepEqual(got, []string{"text/html", "application/json"}) {
		t.Errorf("accept values = %v", got)
	}

	out := bag.Header()
	if out.Get("Authorization") != "Basic abc" {
		t.Errorf("Header() lost authorization: %v", out)
	}
	if _, ok := out["Accept"]; !ok {
		t.Errorf("Header() keys should be canonical: %v", out)
	}
}

func TestDate(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"Date": "Tue, 15 Nov 1994 08:12:31 GMT", "Expires": "tomorrow"})

	got, err := bag.Date("date")
	if err != nil {
		t.Fatalf("Date: %v", err)
	}
	want := time.Date(1994, time.November, 15, 8, 12, 31, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Date = %v, want %v", got, want)
	}

	if _, err := bag.Date("expires"); err == nil {
		t.Error("expected parse error for invalid date")
	}
	if d, err := bag.Date("last-modified"); err != nil || !d.IsZero() {
		t.Errorf("absent header: got %v, %v", d, err)
	}
}

func TestCacheControl(t *testing.T) {
	bag := mustFromMap(t, map[string]string{"Cache-Control": "public, max-age=3600"})

	if !bag.HasCacheControlDirective("public") {
		t.Error("expected public directive")
	}
	if v, ok := bag.CacheControlDirective("MAX-AGE"); !ok || v != "3600" {
		t.Errorf("max-age = %q, %v", v, ok)
	}

	bag.AddCacheControlDirective("no-transform", "")
	bag.RemoveCacheControlDirective("public")
	if got := bag.Get("cache-control"); got != "max-age=3600, no-transform" {
		t.Errorf("cache-control = %q", got)
	}

	bag.RemoveCacheControlDirective("max-age")
	bag.RemoveCacheControlDirective("no-transform")
	if bag.Has("cache-control") {
		t.Error("empty directive set should drop the header")
	}

	bag.Set("cache-control", "private")
	if got := bag.CacheControl(); !reflect.DeepEqual(got, map[string]string{"private": ""}) {
		t.Errorf("Set should reparse directives, got %v", got)
	}
	bag.Remove("cache-control")
	if bag.HasCacheControlDirective("private") {
		t.Error("Remove should clear directives")
	}
}

func mustFromMap(t *testing.T, values map[string]string) *Bag {
	t.Helper()
	bag, err := FromMap(values, KindGeneric)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	return bag
}
