// internal/domain/book/service_test.go
package book

import "testing"

func TestReindexImages(t *testing.T) {
	images := []BookImage{
		{ID: 10, SortOrder: 1},
		{ID: 11, SortOrder: 2},
		{ID: 12, SortOrder: 3},
	}

	t.Run("reverses order", func(t *testing.T) {
		assignments, err := reindexImages(images, []uint{12, 11, 10})
		if err != nil {
			t.Fatalf("reindexImages() error = %v", err)
		}
		if assignments[12] != 1 || assignments[11] != 2 || assignments[10] != 3 {
			t.Errorf("assignments = %v, want 12->1, 11->2, 10->3", assignments)
		}
	})

	t.Run("rejects missing ID", func(t *testing.T) {
		if _, err := reindexImages(images, []uint{12, 11}); err == nil {
			t.Error("expected error for incomplete ID list")
		}
	})

	t.Run("rejects unknown ID", func(t *testing.T) {
		if _, err := reindexImages(images, []uint{12, 11, 99}); err == nil {
			t.Error("expected error for foreign image ID")
		}
	})

	t.Run("rejects duplicate ID", func(t *testing.T) {
		if _, err := reindexImages(images, []uint{12, 11, 11}); err == nil {
			t.Error("expected error for duplicated image ID")
		}
	})
}

func TestBuildOrderClause(t *testing.T) {
	tests := []struct {
		sortBy, sortOrder, want string
	}{
		{"price", "asc", "price asc"},
		{"title", "desc", "title desc"},
		{"stock; DROP TABLE books", "asc", "created_at asc"},
		{"price", "sideways", "price desc"},
	}

	for _, tt := range tests {
		if got := buildOrderClause(tt.sortBy, tt.sortOrder); got != tt.want {
			t.Errorf("buildOrderClause(%q, %q) = %q, want %q", tt.sortBy, tt.sortOrder, got, tt.want)
		}
	}
}

func TestHasStock(t *testing.T) {
	b := Book{Stock: 2}
	if !b.IsInStock() {
		t.Error("book with stock reported out of stock")
	}
	if !b.HasStock(2) {
		t.Error("HasStock(2) = false for stock 2")
	}
	if b.HasStock(3) {
		t.Error("HasStock(3) = true for stock 2")
	}
}
