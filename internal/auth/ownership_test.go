package auth_test

import (
	"testing"

	"github.com/pulsefeed/pulsefeed/internal/auth"
)

type ownedThing struct {
	owner string
}

func (o ownedThing) OwnerID() string { return o.owner }

func TestIsOwner(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		requester string
		want      bool
	}{
		{"same user", "u1", "u1", true},
		{"different user", "u1", "u2", false},
		{"empty requester", "u1", "", false},
		{"both empty", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := auth.IsOwner(ownedThing{owner: tc.owner}, tc.requester)

			if got != tc.want {
				t.Fatalf("IsOwner(%q, %q) = %v, want %v", tc.owner, tc.requester, got, tc.want)
			}
		})
	}
}
