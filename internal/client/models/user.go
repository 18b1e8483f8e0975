package models

// User is the account the session is authenticated as.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// APIKey is an opaque secret; it is replaced wholesale on refresh.
	APIKey  string `json:"api_key"`
	IsAdmin bool   `json:"is_admin"`
}

// Clone returns a copy safe to hand out to callers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// ProfileUpdate holds the editable profile fields. ConfirmPassword is
// checked locally and never sent.
type ProfileUpdate struct {
	Username        string
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ChangesPassword reports whether a new password was supplied.
func (p ProfileUpdate) ChangesPassword() bool {
	return p.NewPassword != ""
}

// ProfileUpdateBody is the PUT /auth/me payload.
type ProfileUpdateBody struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

// Body converts p to its wire form; password fields are set only when changing.
func (p ProfileUpdate) Body() ProfileUpdateBody {
	b := ProfileUpdateBody{Username: p.Username, Email: p.Email}
	if p.ChangesPassword() {
		b.CurrentPassword = p.CurrentPassword
		b.NewPassword = p.NewPassword
	}
	return b
}
