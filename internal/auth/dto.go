package auth

import "github.com/angelmondragon/tastetrack-storefront/pkg/enums"

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest captures the registration form.
type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

// Profile is the signed-in user as shown to the UI.
type Profile struct {
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      enums.Role `json:"role"`
}

// LoginResponse carries the storefront token and where the UI should land.
type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        Profile `json:"user"`
	RedirectTo  string  `json:"redirect_to"`
}

type upstreamLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type upstreamSignup struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

// upstreamAuthResponse is the REST API's answer to login and signup.
type upstreamAuthResponse struct {
	Token     string `json:"token" validate:"required"`
	Email     string `json:"email" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role" validate:"required"`
}
