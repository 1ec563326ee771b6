package profile

// Profile is the normalized user record shown by the UI. Missing fields are
// empty strings.
type Profile struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Mobile             string `json:"mobile"`
	ProfilePhotoURL    string `json:"profilePhotoUrl"`
	ActiveMembershipID string `json:"activeMembershipId"`
	KYCStatus          string `json:"kycStatus"`
}

// Patch lists fields to overwrite; nil fields are left alone.
type Patch struct {
	Name               *string
	Email              *string
	Mobile             *string
	ProfilePhotoURL    *string
	ActiveMembershipID *string
	KYCStatus          *string
}

func (p Profile) apply(patch Patch) Profile {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, patch.Name)
	set(&p.Email, patch.Email)
	set(&p.Mobile, patch.Mobile)
	set(&p.ProfilePhotoURL, patch.ProfilePhotoURL)
	set(&p.ActiveMembershipID, patch.ActiveMembershipID)
	set(&p.KYCStatus, patch.KYCStatus)
	return p
}

// Result is a successful Fetch.
type Result struct {
	Profile   Profile
	FromCache bool
}
