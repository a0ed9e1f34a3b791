package account

import (
	"context"
	"strings"
)

// Directory is the subset of the account service used for profiles.
type Directory interface {
	GetUser(ctx context.Context, username string) (User, error)
	UpdateUser(ctx context.Context, username string, u User) error
}

// ProfileEdit carries the fields a user may change on their profile.
// Nil fields are left untouched.
type ProfileEdit struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email"`
	Contact   *string `json:"contact"`
}

// ProfileService edits profiles on top of a Directory that only supports
// whole-record replacement.
type ProfileService struct {
	Accounts Directory
}

// Profile returns the record for username with the password blanked.
func (s *ProfileService) Profile(ctx context.Context, username string) (User, error) {
	u, err := s.Accounts.GetUser(ctx, username)
	if err != nil {
		return User{}, err
	}
	u.Password = ""
	return u, nil
}

// UpdateProfile applies edit to the stored record.  Password, username and
// usertype are read back from the service and sent unchanged so the
// replacement does not wipe them.
func (s *ProfileService) UpdateProfile(ctx context.Context, username string, edit ProfileEdit) (User, error) {
	cur, err := s.Accounts.GetUser(ctx, username)
	if err != nil {
		return User{}, err
	}
	next := cur
	if edit.Firstname != nil {
		next.Firstname = strings.TrimSpace(*edit.Firstname)
	}
	if edit.Lastname != nil {
		next.Lastname = strings.TrimSpace(*edit.Lastname)
	}
	if edit.Email != nil {
		next.Email = strings.ToLower(strings.TrimSpace(*edit.Email))
	}
	if edit.Contact != nil {
		next.Contact = strings.TrimSpace(*edit.Contact)
	}
	if err := s.Accounts.UpdateUser(ctx, username, next); err != nil {
		return User{}, err
	}
	next.Password = ""
	return next, nil
}
