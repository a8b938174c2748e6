package notes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gavelhq/gavel/internal/testutil"
)

func TestAdd_SanitizesText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	if err := store.Add(ctx, "guild-1", "user-1", "author-1", "  <script>alert(1)</script>missed two shifts  "); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	list, err := store.ListRecent(ctx, "guild-1", "user-1", 0)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 note, got %d", len(list))
	}
	if list[0].Text != "missed two shifts" {
		t.Errorf("text: got %q, want %q", list[0].Text, "missed two shifts")
	}
	if list[0].AuthorID != "author-1" {
		t.Errorf("author: got %q, want %q", list[0].AuthorID, "author-1")
	}
}

func TestAdd_RejectsEmptyAfterSanitize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	for _, text := range []string{"", "   ", "<b></b>"} {
		err := store.Add(ctx, "guild-1", "user-1", "author-1", text)
		if !errors.Is(err, ErrEmptyText) {
			t.Errorf("Add(%q): got %v, want ErrEmptyText", text, err)
		}
	}
}

func TestListRecent_NewestFirstCapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	for i := 0; i < DefaultHistoryLimit+5; i++ {
		if err := store.Add(ctx, "guild-1", "user-1", "author-1", fmt.Sprintf("note %d", i)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	list, err := store.ListRecent(ctx, "guild-1", "user-1", 0)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(list) != DefaultHistoryLimit {
		t.Fatalf("expected %d notes, got %d", DefaultHistoryLimit, len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Errorf("notes not in descending order at index %d", i)
		}
	}
}
