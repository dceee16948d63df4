package privacy

import (
	"regexp"
	"testing"
)

// Values already handed out to users; they must never change.
func TestAliasKnownValues(t *testing.T) {
	testCases := []struct {
		id    string
		alias string
	}{
		{"u1", "BraveFox81"},
		{"u2", "WiseFalcon287"},
		{"karim", "BraveBear820"},
		{"550e8400-e29b-41d4-a716-446655440000", "FairHawk722"},
		{"", "FairLion608"},
		{"anonymous", "FairFox157"},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			if got := Alias(tc.id); got != tc.alias {
				t.Errorf("Alias(%q) = %q, want %q", tc.id, got, tc.alias)
			}
		})
	}
}

func TestAliasShape(t *testing.T) {
	shape := regexp.MustCompile(`^(Swift|Clever|Bold|Kind|Wise|Fair|Calm|Brave)(Falcon|Lion|Eagle|Wolf|Bear|Fox|Hawk|Tiger)([0-9]|[1-9][0-9]{1,2})$`)
	ids := []string{"a", "b", "provider-7", "0x1111", "ümlaut", "u1", "9f1c"}
	for _, id := range ids {
		first := Alias(id)
		if !shape.MatchString(first) {
			t.Errorf("Alias(%q) = %q does not match the alias shape", id, first)
		}
		if second := Alias(id); second != first {
			t.Errorf("Alias(%q) not stable: %q then %q", id, first, second)
		}
	}
}

func TestAliasForMissingID(t *testing.T) {
	if got := aliasFor(""); got != Alias("anonymous") {
		t.Errorf("aliasFor(\"\") = %q, want %q", got, Alias("anonymous"))
	}
}
