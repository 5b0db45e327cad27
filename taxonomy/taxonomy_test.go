package taxonomy

import (
	"reflect"
	"testing"
)

func TestMatchIssues(t *testing.T) {
	// WHAT: Issue tags come only from the fixed vocabulary, deduped and sorted.
	text := `The appellant alleges breach of contract and negligence. The
	trial court awarded damages. A contract was formed; damages flow from it.`
	got := MatchIssues(text)
	want := []string{"contract", "tort"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchIssues = %v, want %v", got, want)
	}
}

func TestMatchIssues_Empty(t *testing.T) {
	if got := MatchIssues("nothing legal here"); len(got) != 0 {
		t.Errorf("MatchIssues on neutral text = %v, want empty", got)
	}
}

func TestMatchStatutes(t *testing.T) {
	// WHAT: Act-number grammar and named enactments both contribute, once each.
	text := `Under Act 29 and section 11 of the Evidence Act 1961, read with
	the 1992 Constitution and Act 29 again.`
	got := MatchStatutes(text)
	want := []string{"1992 Constitution", "Act 29", "Evidence Act 1961"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchStatutes = %v, want %v", got, want)
	}
}

func TestMatchCitations_ExcludesSelf(t *testing.T) {
	// WHAT: The document's own neutral citation is not a cross-reference.
	text := `This appeal [2023] GHASC 45 follows Tuffuor v Attorney-General
	and [2019] GHASC 41, also reported at (2010) SCGLR 705.`
	got := MatchCitations(text, "[2023] GHASC 45")
	want := []string{"(2010) SCGLR 705", "[2019] GHASC 41"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchCitations = %v, want %v", got, want)
	}
}
