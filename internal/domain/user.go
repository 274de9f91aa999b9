package domain

import "strings"

// User is an account as returned by the backend. Ranking, Nationality and
// BirthDate are only populated for players and referees.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Ranking     *int   `json:"ranking,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	BirthDate   *Date  `json:"birthDate,omitempty"`
}

// FullName joins first and last name, falling back to the username
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// UserInput is the create/update payload for users. Password and Role are
// omitted from the request when unset.
type UserInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	Role        *Role  `json:"role,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// SetPassword sets the password only when it is not blank
func (in *UserInput) SetPassword(password string) {
	if p := strings.TrimSpace(password); p != "" {
		in.Password = p
	}
}

// WithRole sets the role field
func (in *UserInput) WithRole(r Role) {
	in.Role = &r
}
