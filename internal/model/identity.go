package model

// Identity is decoded from a valid session token and lives for a single
// request.
type Identity struct {
	UserID   int
	Username string
}

func (i Identity) Public() PublicUser {
	return PublicUser{ID: i.UserID, Username: i.Username}
}
