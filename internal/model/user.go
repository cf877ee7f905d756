package model

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// PublicUser is the part of a User that may leave the server.
type PublicUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
