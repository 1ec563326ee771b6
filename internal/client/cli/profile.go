package cli

import (
	"context"
	"fmt"

	"github.com/anantaclub/ananta/internal/client/client"
	"github.com/anantaclub/ananta/internal/client/profile"
)

// Profile prints the profile, served from cache while it is fresh.
func (a *App) Profile(ctx context.Context) error {
	return a.showProfile(ctx, false)
}

// Refresh fetches the profile from the server regardless of cache age.
func (a *App) Refresh(ctx context.Context) error {
	return a.showProfile(ctx, true)
}

func (a *App) showProfile(ctx context.Context, force bool) error {
	res, err := a.resolver.Fetch(ctx, force)
	if err != nil {
		fmt.Fprintln(a.out, profileErrorText(err))
		return err
	}

	p := res.Profile
	fmt.Fprintf(a.out, "Name:       %s\n", orDash(p.Name))
	fmt.Fprintf(a.out, "Mobile:     %s\n", orDash(p.Mobile))
	fmt.Fprintf(a.out, "Email:      %s\n", orDash(p.Email))
	fmt.Fprintf(a.out, "Photo:      %s\n", orDash(p.ProfilePhotoURL))
	fmt.Fprintf(a.out, "Membership: %s\n", orDash(p.ActiveMembershipID))
	fmt.Fprintf(a.out, "KYC:        %s\n", orDash(p.KYCStatus))
	if res.FromCache {
		fmt.Fprintln(a.out, "(cached)")
	}
	return nil
}

// Update prompts for the editable fields. Empty answers keep the current
// value.
func (a *App) Update(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	photo, err := getSimpleText(a.reader, "Photo URL (empty keeps current)", a.out)
	if err != nil {
		return err
	}

	if name == "" && email == "" && photo == "" {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	u := client.ProfileUpdate{Name: name, Email: email, ProfilePhotoURL: photo}
	if err := a.resolver.Update(ctx, u); err != nil {
		fmt.Fprintln(a.out, "Update failed:", profileErrorText(err))
		return err
	}

	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

func profileErrorText(err error) string {
	switch profile.Kind(err) {
	case profile.KindNoToken:
		return "Not signed in. Use 'login' first."
	case profile.KindTimeout:
		return "The server is taking too long. Try again."
	case profile.KindMalformedResponse:
		return "The server sent an unexpected response."
	case profile.KindNetwork:
		return "Could not load the profile: " + describe(err)
	default:
		return err.Error()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
