package repository

import (
	"matchos/internal/models"
	"matchos/internal/privacy"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestProviderFilter(t *testing.T) {
	testCases := []struct {
		name  string
		skill string
		want  bson.M
	}{
		{"no skill", "", bson.M{"role": privacy.RoleProvider}},
		{"plain skill", "plumbing", bson.M{
			"role":   privacy.RoleProvider,
			"skills": bson.M{"$regex": "^plumbing$", "$options": "i"},
		}},
		{"regex characters are escaped", "c++ (advanced)", bson.M{
			"role":   privacy.RoleProvider,
			"skills": bson.M{"$regex": `^c\+\+ \(advanced\)$`, "$options": "i"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, providerFilter(tc.skill)); diff != "" {
				t.Errorf("providerFilter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreditsFilter(t *testing.T) {
	if diff := cmp.Diff(bson.M{"_id": "u1"}, creditsFilter("u1", 10)); diff != "" {
		t.Errorf("credit filter mismatch:\n%s", diff)
	}
	want := bson.M{"_id": "u1", "credits": bson.M{"$gte": int64(7)}}
	if diff := cmp.Diff(want, creditsFilter("u1", -7)); diff != "" {
		t.Errorf("debit filter mismatch:\n%s", diff)
	}
}

func TestProfileUpdateOnlySetsProvidedFields(t *testing.T) {
	zone := "oran-1"
	req := &models.UpdateProfileRequest{
		LocationZoneID: &zone,
		Skills:         []string{"tiling"},
	}
	want := bson.M{"location_zone_id": "oran-1", "skills": []string{"tiling"}}
	if diff := cmp.Diff(want, profileUpdate(req)); diff != "" {
		t.Errorf("profileUpdate mismatch (-want +got):\n%s", diff)
	}
	if got := profileUpdate(&models.UpdateProfileRequest{}); len(got) != 0 {
		t.Errorf("expected empty update, got %v", got)
	}
}

func TestUserKey(t *testing.T) {
	if got := userKey("u1"); got != "user:u1" {
		t.Errorf("userKey() = %q", got)
	}
}
