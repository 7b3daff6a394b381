package types

// AuthClaims carries the identity claims of a verified credential.
// The auth middleware fills it from a bearer token or an Authorizer
// session; the service layer treats it as pre-verified input.
type AuthClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}
