package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the ops dashboard login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the ops token
type LoginResponse struct {
	Token string `json:"token"`
	OpsID string `json:"opsId"`
}

// OpsClaims is the JWT payload for dashboard/read access
type OpsClaims struct {
	OpsID string `json:"opsId"`
	jwt.RegisteredClaims
}
