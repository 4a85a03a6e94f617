package inmemory

import (
	"testing"
	"time"

	"github.com/malprimis/petanchiki/internal/domain/category"
)

func TestCategoryCacheExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCategoryCache()
	cache.now = func() time.Time { return now }

	cache.SetByGroupID("g1", []category.Category{{ID: "c1", Name: "Food"}}, time.Minute)

	got, ok := cache.GetByGroupID("g1")
	if !ok || len(got) != 1 || got[0].Name != "Food" {
		t.Fatalf("expected cached categories, got %+v %v", got, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := cache.GetByGroupID("g1"); ok {
		t.Fatalf("expected entry to expire")
	}
	if _, ok := cache.items["g1"]; ok {
		t.Fatalf("expected expired entry to be evicted")
	}
}

func TestCategoryCacheCopiesIcons(t *testing.T) {
	cache := NewCategoryCache()
	icon := "pizza"
	input := []category.Category{{ID: "c1", Name: "Food", Icon: &icon}}

	cache.SetByGroupID("g1", input, time.Minute)
	icon = "changed"

	got, _ := cache.GetByGroupID("g1")
	if got[0].Icon == nil || *got[0].Icon != "pizza" {
		t.Fatalf("expected stored icon to be independent of caller, got %v", got[0].Icon)
	}

	*got[0].Icon = "mutated"
	again, _ := cache.GetByGroupID("g1")
	if *again[0].Icon != "pizza" {
		t.Fatalf("expected returned icon to be a copy, got %q", *again[0].Icon)
	}
}

func TestCategoryCacheDelete(t *testing.T) {
	cache := NewCategoryCache()
	cache.SetByGroupID("g1", nil, time.Minute)

	got, ok := cache.GetByGroupID("g1")
	if !ok || got == nil || len(got) != 0 {
		t.Fatalf("expected cached empty list, got %+v %v", got, ok)
	}

	cache.DeleteByGroupID("g1")
	if _, ok := cache.GetByGroupID("g1"); ok {
		t.Fatalf("expected entry to be deleted")
	}

	cache.SetByGroupID("g1", nil, 0)
	if _, ok := cache.GetByGroupID("g1"); ok {
		t.Fatalf("expected non-positive ttl to skip caching")
	}
}

var _ category.Cache = (*CategoryCache)(nil)
