package records

import (
	"testing"

	"github.com/lnclinic/prontuario/internal/domain"
)

func evalID(e domain.Evaluation) string { return e.ID }

func TestList_ApplyCreate(t *testing.T) {
	t.Parallel()

	l := NewList(evalID, domain.Evaluation{ID: "1"})

	if changed := l.ApplyCreate(true, domain.Evaluation{ID: "2"}); !changed {
		t.Error("ApplyCreate(true) should change the list")
	}
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	if got := l.Items()[1].ID; got != "2" {
		t.Errorf("appended item at tail = %q, want %q", got, "2")
	}

	// Duplicate signal: list untouched.
	if changed := l.ApplyCreate(false, domain.Evaluation{ID: "3"}); changed {
		t.Error("ApplyCreate(false) must not change the list")
	}
	if l.Len() != 2 {
		t.Errorf("Len after duplicate signal = %d, want 2", l.Len())
	}
}

func TestList_ApplyUpdate(t *testing.T) {
	t.Parallel()

	l := NewList(evalID,
		domain.Evaluation{ID: "1", Content: "old"},
		domain.Evaluation{ID: "2", Content: "keep"},
	)

	if changed := l.ApplyUpdate(true, domain.Evaluation{ID: "1", Content: "new"}); !changed {
		t.Error("ApplyUpdate(true) with matching ID should change the list")
	}
	items := l.Items()
	if items[0].Content != "new" || items[1].Content != "keep" {
		t.Errorf("unexpected items after update: %+v", items)
	}

	if changed := l.ApplyUpdate(false, domain.Evaluation{ID: "2", Content: "nope"}); changed {
		t.Error("ApplyUpdate(false) must not change the list")
	}
	if changed := l.ApplyUpdate(true, domain.Evaluation{ID: "404"}); changed {
		t.Error("ApplyUpdate with unknown ID must not change the list")
	}
}

func TestList_ApplyDelete(t *testing.T) {
	t.Parallel()

	l := NewList(evalID,
		domain.Evaluation{ID: "1"},
		domain.Evaluation{ID: "2"},
		domain.Evaluation{ID: "3"},
	)

	if changed := l.ApplyDelete(true, "2"); !changed {
		t.Error("ApplyDelete(true) with matching ID should change the list")
	}
	items := l.Items()
	if len(items) != 2 || items[0].ID != "1" || items[1].ID != "3" {
		t.Errorf("unexpected items after delete: %+v", items)
	}

	if changed := l.ApplyDelete(false, "1"); changed {
		t.Error("ApplyDelete(false) must not change the list")
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
}

func TestList_ItemsIsACopy(t *testing.T) {
	t.Parallel()

	l := NewList(evalID, domain.Evaluation{ID: "1", Content: "original"})
	items := l.Items()
	items[0].Content = "mutated"

	if l.Items()[0].Content != "original" {
		t.Error("mutating the returned slice must not affect the list")
	}
}
