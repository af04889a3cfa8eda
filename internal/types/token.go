package types

// TokenClaims holds the identity carried by a validated JWT.
type TokenClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}
