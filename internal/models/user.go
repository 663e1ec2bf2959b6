// Package models defines the core data structures shared by the coordinator:
// the authenticated user and session, channel identifiers, submission records
// and the result envelope returned for every action.
package models

// User is the account returned by the catalog service for the current credential.
type User struct {
	// ID is the unique identifier of the user on the catalog service.
	ID string `json:"id"`
	// Username is the login name.
	Username string `json:"username"`
	// Role is the catalog role (e.g. "ADMIN", "EDITOR").
	Role string `json:"role"`
	// Email is the contact address, may be empty.
	Email string `json:"email,omitempty"`
}

// Session is a point-in-time copy of the coordinator's authentication state.
type Session struct {
	// AccessToken is the short-lived bearer credential.
	AccessToken string `json:"authToken,omitempty"`
	// RefreshToken mints new access tokens. Empty for manually entered tokens.
	RefreshToken string `json:"refreshToken,omitempty"`
	// User is set once the access token has been validated against the remote API.
	User *User `json:"userInfo,omitempty"`
}

// Authenticated reports whether the session holds an access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}
