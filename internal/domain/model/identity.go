package model

// Identity is the principal bound to the current request. The zero value
// is the Anonymous sentinel.
type Identity struct {
	Username string `json:"username"`
}

// Anonymous represents an unauthenticated request.
var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool {
	return i.Username == ""
}
