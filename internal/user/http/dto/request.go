// Package dto provides data transfer objects for the user HTTP layer.
package dto

// RegisterUserRequest represents the API request for user registration
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the API request for user authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
