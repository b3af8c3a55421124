package catalog

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestSanitizeAttributesWhitelisted(t *testing.T) {
	wl := DefaultAttributeWhitelist()

	got := SanitizeAttributes(wl, strPtr("Vestuário"), strPtr("Sapato"), map[string]any{
		"marca": "X",
		"cor":   "preto",
		"peso":  "1kg",
	})
	want := map[string]any{"marca": "X", "cor": "preto"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSanitizeAttributesPrimitiveFallback(t *testing.T) {
	wl := DefaultAttributeWhitelist()

	got := SanitizeAttributes(wl, strPtr("Desconhecida"), strPtr("X"), map[string]any{
		"a": "b",
		"c": []any{1, 2},
	})
	want := map[string]any{"a": "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unknown category pair should keep primitives only: got %v want %v", got, want)
	}

	// Missing categories also fall back to the primitive filter.
	got = SanitizeAttributes(wl, nil, nil, map[string]any{"rating": 4.5, "meta": map[string]any{"x": 1}})
	want = map[string]any{"rating": 4.5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSanitizeAttributesImageURLsPassThrough(t *testing.T) {
	wl := DefaultAttributeWhitelist()

	got := SanitizeAttributes(wl, strPtr("Vestuário"), strPtr("Sapato"), map[string]any{
		"marca":      "X",
		"image_urls": []any{"/uploads/a.png"},
	})
	urls, ok := got["image_urls"].([]any)
	if !ok || len(urls) != 1 {
		t.Fatalf("image_urls should pass through verbatim, got %v", got)
	}

	// Empty image_urls lists are dropped like absent ones.
	got = SanitizeAttributes(wl, strPtr("Vestuário"), strPtr("Sapato"), map[string]any{
		"marca":      "X",
		"image_urls": []any{},
	})
	if _, ok := got["image_urls"]; ok {
		t.Fatalf("empty image_urls should be dropped, got %v", got)
	}
}

func TestSanitizeAttributesEmptyResults(t *testing.T) {
	wl := DefaultAttributeWhitelist()

	if got := SanitizeAttributes(wl, strPtr("Vestuário"), strPtr("Sapato"), nil); got != nil {
		t.Fatalf("absent attrs should return nil, got %v", got)
	}
	if got := SanitizeAttributes(wl, strPtr("Vestuário"), strPtr("Sapato"), map[string]any{}); got != nil {
		t.Fatalf("empty attrs should return nil, got %v", got)
	}
	if got := SanitizeAttributes(wl, strPtr("Vestuário"), strPtr("Sapato"), map[string]any{"peso": "1kg"}); got != nil {
		t.Fatalf("fully filtered attrs should return nil, got %v", got)
	}
}

func TestWhitelistLookupIsCaseSensitive(t *testing.T) {
	wl := DefaultAttributeWhitelist()
	if wl.Lookup("vestuário", "Sapato") != nil {
		t.Fatal("lookup must not fold case")
	}
	if wl.Lookup("Vestuário", "Sapato") == nil {
		t.Fatal("exact match should resolve")
	}
	if wl.Lookup("", "Sapato") != nil || wl.Lookup("Vestuário", "") != nil {
		t.Fatal("missing category should resolve to nil")
	}
}
