package botapp

import (
	"strings"
	"testing"

	"github.com/streetpaws/feedpoint/points"
)

func TestListTextEscapesMarkdown(t *testing.T) {
	out := listText([]points.Record{{
		Description: "kapı_önü *park*",
		Schedule:    "18:00",
		OwnerName:   "ayse_k",
	}})

	if strings.Contains(out, "kapı_önü") {
		t.Errorf("underscore left unescaped:\n%s", out)
	}
	if !strings.Contains(out, `kapı\_önü \*park\*`) {
		t.Errorf("escaped description missing:\n%s", out)
	}
	if !strings.Contains(out, `ayse\_k`) {
		t.Errorf("escaped username missing:\n%s", out)
	}
}

func TestOwnListTextShowsApprovalStatus(t *testing.T) {
	out := ownListText([]points.Record{
		{Description: "a", Schedule: "s", Approved: true},
		{Description: "b", Schedule: "s"},
	})
	if !strings.Contains(out, "✅ a") || !strings.Contains(out, "⏳ b") {
		t.Errorf("status markers wrong:\n%s", out)
	}
}

func TestSubmittedTextDependsOnApproval(t *testing.T) {
	pending := submittedText(points.Record{Description: "d", Schedule: "s"})
	if !strings.Contains(pending, "onayı beklemektedir") {
		t.Errorf("pending wording missing:\n%s", pending)
	}
	live := submittedText(points.Record{Description: "d", Schedule: "s", Approved: true})
	if !strings.Contains(live, "başarıyla eklendi") {
		t.Errorf("approved wording missing:\n%s", live)
	}
}

func TestAnonymousOwnerFallback(t *testing.T) {
	out := pendingListText([]points.Record{{Description: "d", Schedule: "s"}})
	if !strings.Contains(out, points.AnonymousOwner) {
		t.Errorf("anonymous fallback missing:\n%s", out)
	}
}
