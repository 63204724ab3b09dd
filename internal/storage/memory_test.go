package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryStoreSpecRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	spec := testSpec("s1", 4, "2026-01-02T03:04:05Z")
	if err := store.SaveSpec(ctx, spec); err != nil {
		t.Fatalf("save spec: %v", err)
	}
	spec.Collides[0] = "mutated"

	loaded, ok, err := store.GetSpec(ctx, "s1")
	if err != nil {
		t.Fatalf("get spec: %v", err)
	}
	if !ok {
		t.Fatal("expected spec s1")
	}
	if loaded.Collides[0] != "$ Torso" {
		t.Fatalf("store must keep its own copy, got %q", loaded.Collides[0])
	}
	if len(loaded.Collides) != 9 || loaded.Legs != 4 {
		t.Fatalf("unexpected spec loaded: %+v", loaded)
	}

	if _, ok, err := store.GetSpec(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing spec, ok=%t err=%v", ok, err)
	}

	if err := store.DeleteSpec(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.GetSpec(ctx, "s1"); ok {
		t.Fatal("expected spec deleted")
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, spec := range []struct {
		id, at string
	}{
		{id: "old", at: "2026-01-01T00:00:00Z"},
		{id: "new", at: "2026-03-01T00:00:00Z"},
		{id: "mid", at: "2026-02-01T00:00:00Z"},
	} {
		if err := store.SaveSpec(ctx, testSpec(spec.id, 2, spec.at)); err != nil {
			t.Fatalf("save %s: %v", spec.id, err)
		}
	}

	all, err := store.ListSpecs(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, item := range all {
		ids = append(ids, item.ID)
	}
	if diff := cmp.Diff([]string{"new", "mid", "old"}, ids); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	limited, err := store.ListSpecs(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "new" {
		t.Fatalf("unexpected limited list: %+v", limited)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	if err := NewMemoryStore().SaveSpec(context.Background(), testSpec("s", 1, "")); err == nil {
		t.Fatal("expected uninitialized store error")
	}
}

func TestMemoryStoreListOrdersFractionalSeconds(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, spec := range []struct {
		id, at string
	}{
		{id: "whole", at: "2026-01-02T03:04:05Z"},
		{id: "tenth", at: "2026-01-02T03:04:05.1Z"},
		{id: "fixed", at: "2026-01-02T03:04:05.050000000Z"},
	} {
		if err := store.SaveSpec(ctx, testSpec(spec.id, 1, spec.at)); err != nil {
			t.Fatalf("save %s: %v", spec.id, err)
		}
	}

	all, err := store.ListSpecs(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, item := range all {
		ids = append(ids, item.ID)
	}
	if diff := cmp.Diff([]string{"tenth", "fixed", "whole"}, ids); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}
