package profile

import (
	"github.com/tidwall/gjson"
)

// userLocators are the historical nestings of the user object, newest first.
var userLocators = []string{"data.data.user", "data.user", "data"}

// extractor pulls one field out of a user object.
type extractor func(user gjson.Result) (string, bool)

var (
	nameExtractors   = []extractor{field("name"), field("full_name"), field("fullName")}
	emailExtractors  = []extractor{field("email")}
	mobileExtractors = []extractor{field("mobile"), field("phone"), field("phone_number")}
	photoExtractors  = []extractor{field("profile_photo_url"), field("profilePhotoUrl"), field("avatar")}
	kycExtractors    = []extractor{field("kyc_status"), field("kycStatus")}

	membershipExtractors = []extractor{
		field("active_membership.plan_id"),
		field("activeMembership.plan_id"),
		firstActiveMembership,
	}
)

// Normalize locates the user object in a profile response body and maps it
// onto Profile.
func Normalize(body []byte) (Profile, error) {
	user, ok := locateUser(body)
	if !ok {
		return Profile{}, ErrMalformedResponse
	}

	return Profile{
		Name:               firstOf(user, nameExtractors),
		Email:              firstOf(user, emailExtractors),
		Mobile:             firstOf(user, mobileExtractors),
		ProfilePhotoURL:    firstOf(user, photoExtractors),
		ActiveMembershipID: firstOf(user, membershipExtractors),
		KYCStatus:          firstOf(user, kycExtractors),
	}, nil
}

func locateUser(body []byte) (gjson.Result, bool) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, false
	}
	for _, path := range userLocators {
		if v := gjson.GetBytes(body, path); v.IsObject() {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func firstOf(user gjson.Result, extractors []extractor) string {
	for _, ex := range extractors {
		if v, ok := ex(user); ok {
			return v
		}
	}
	return ""
}

// field matches a non-empty string or number at path.
func field(path string) extractor {
	return func(user gjson.Result) (string, bool) {
		return scalar(user.Get(path))
	}
}

// firstActiveMembership takes plan_id of the first memberships entry flagged
// active under either spelling.
func firstActiveMembership(user gjson.Result) (string, bool) {
	var (
		id    string
		found bool
	)
	user.Get("memberships").ForEach(func(_, m gjson.Result) bool {
		if m.Get("is_active").Bool() || m.Get("isActive").Bool() {
			id, found = scalar(m.Get("plan_id"))
			return false
		}
		return true
	})
	return id, found
}

func scalar(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String, gjson.Number:
		s := v.String()
		return s, s != ""
	default:
		return "", false
	}
}
