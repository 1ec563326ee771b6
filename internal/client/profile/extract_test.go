package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userFields = `{
  "name": "Alice",
  "email": "alice@example.com",
  "mobile": "9876543210",
  "profile_photo_url": "https://cdn.example.com/a.png",
  "kyc_status": "verified",
  "active_membership": {"plan_id": "GOLD"}
}`

func TestNormalize_ShapeTolerance(t *testing.T) {
	want := Profile{
		Name:               "Alice",
		Email:              "alice@example.com",
		Mobile:             "9876543210",
		ProfilePhotoURL:    "https://cdn.example.com/a.png",
		ActiveMembershipID: "GOLD",
		KYCStatus:          "verified",
	}

	shapes := map[string]string{
		"data.data.user": `{"success":true,"data":{"data":{"user":` + userFields + `}}}`,
		"data.user":      `{"success":true,"data":{"user":` + userFields + `}}`,
		"data":           `{"success":true,"data":` + userFields + `}`,
	}

	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			got, err := Normalize([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalize_MembershipPrecedence(t *testing.T) {
	tests := []struct {
		name string
		user string
		want string
	}{
		{
			name: "active_membership wins over memberships list",
			user: `{"active_membership":{"plan_id":"A"},"memberships":[{"plan_id":"B","is_active":true}]}`,
			want: "A",
		},
		{
			name: "snake case wins over camel case",
			user: `{"active_membership":{"plan_id":"A"},"activeMembership":{"plan_id":"C"}}`,
			want: "A",
		},
		{
			name: "camel case object",
			user: `{"activeMembership":{"plan_id":"C"},"memberships":[{"plan_id":"B","is_active":true}]}`,
			want: "C",
		},
		{
			name: "first active entry of list",
			user: `{"memberships":[{"plan_id":"OLD","is_active":false},{"plan_id":"B","is_active":true},{"plan_id":"D","is_active":true}]}`,
			want: "B",
		},
		{
			name: "camel isActive flag",
			user: `{"memberships":[{"plan_id":"E","isActive":true}]}`,
			want: "E",
		},
		{
			name: "numeric plan id",
			user: `{"active_membership":{"plan_id":42}}`,
			want: "42",
		},
		{
			name: "null active_membership falls through",
			user: `{"active_membership":null,"memberships":[{"plan_id":"B","is_active":true}]}`,
			want: "B",
		},
		{
			name: "no active membership",
			user: `{"memberships":[{"plan_id":"B","is_active":false}]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(`{"data":{"user":` + tt.user + `}}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ActiveMembershipID)
		})
	}
}

func TestNormalize_NestedMembershipList(t *testing.T) {
	body := `{"data":{"data":{"user":{"name":"Bob","memberships":[{"plan_id":"X","is_active":true}]}}}}`

	got, err := Normalize([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "X", got.ActiveMembershipID)
}

func TestNormalize_DefaultsAndAlternateNames(t *testing.T) {
	got, err := Normalize([]byte(`{"data":{"user":{"fullName":"Carol","profilePhotoUrl":"p","kycStatus":"pending","phone":"+911234567890"}}}`))
	require.NoError(t, err)
	assert.Equal(t, Profile{
		Name:            "Carol",
		Mobile:          "+911234567890",
		ProfilePhotoURL: "p",
		KYCStatus:       "pending",
	}, got)

	got, err = Normalize([]byte(`{"data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, Profile{}, got)
}

func TestNormalize_IgnoresNonScalarFields(t *testing.T) {
	got, err := Normalize([]byte(`{"data":{"user":{"name":{"first":"A"},"full_name":"Ann"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestNormalize_Malformed(t *testing.T) {
	bodies := []string{
		``,
		`not json`,
		`{"success":true}`,
		`{"data":null}`,
		`{"data":"text"}`,
		`{"data":[{"name":"x"}]}`,
	}
	for _, b := range bodies {
		_, err := Normalize([]byte(b))
		require.ErrorIs(t, err, ErrMalformedResponse, "body %q", b)
	}
}
