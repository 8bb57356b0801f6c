package remote

import "testing"

func TestDescribe(t *testing.T) {
	set := Describe("https://example.com/repo", "billing", "invoice", ".py")

	if set.Entry != "https://example.com/repo/billing/invoice/download.py" {
		t.Fatalf("unexpected entry address: %s", set.Entry)
	}
	if set.Sibling != "https://example.com/repo/billing/invoice/script.py" {
		t.Fatalf("unexpected sibling address: %s", set.Sibling)
	}
	if set.Helpers != "https://example.com/repo/common/helpers.py" {
		t.Fatalf("unexpected helpers address: %s", set.Helpers)
	}
	if set.Root != "https://example.com/repo" {
		t.Fatalf("unexpected root: %s", set.Root)
	}
}

func TestAdjacent(t *testing.T) {
	cases := []struct {
		dotted string
		want   string
		ok     bool
	}{
		{dotted: "groupA.scriptB.utils", want: "/r/groupA/scriptB/utils.py", ok: true},
		{dotted: "groupA.scriptB.utils.extra", want: "/r/groupA/scriptB/utils.py", ok: true},
		{dotted: "groupA.scriptB", ok: false},
		{dotted: "groupA", ok: false},
		{dotted: "a..c", ok: false},
	}

	for _, tc := range cases {
		got, ok := Adjacent("/r", tc.dotted, ".py")
		if ok != tc.ok {
			t.Fatalf("Adjacent(%q): expected ok=%v, got %v", tc.dotted, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("Adjacent(%q): expected %s, got %s", tc.dotted, tc.want, got)
		}
	}
}

// The resolved address must depend only on the dotted path and the
// project root, not on whichever script requested it.
func TestAdjacentIndependentOfRequestingScript(t *testing.T) {
	first, _ := Adjacent("/r", "groupA.scriptB.utils", ".py")

	_ = Describe("/r", "otherGroup", "otherScript", ".py")
	second, _ := Adjacent("/r", "groupA.scriptB.utils", ".py")

	if first != second {
		t.Fatalf("adjacent address changed with request context: %s vs %s", first, second)
	}
}
