package user

// User is a row of the users table. Password holds whatever the deployment
// stores: plaintext for AUTH_MODE=plain, a bcrypt hash for AUTH_MODE=bcrypt.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
}
