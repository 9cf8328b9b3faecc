package model

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// Token is the login/refresh response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
