package dto

type RegisterDto struct {
	Username string `json:"username"`
	KnownAs  string `json:"knownAs"`
	Password string `json:"password"`
}

type LoginDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountDto is returned by register and login.
type AccountDto struct {
	Username string `json:"username"`
	KnownAs  string `json:"knownAs"`
	Token    string `json:"token"`
}
