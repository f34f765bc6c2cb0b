package hotelapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
)

// LoginKind picks the upstream login endpoint.
type LoginKind int

const (
	StaffLogin    LoginKind = iota // admin and receptionist accounts
	CustomerLogin                  // guests booking rooms
)

func (k LoginKind) path() string {
	if k == CustomerLogin {
		return "/customer/login"
	}
	return "/user/login"
}

// ErrLoginRejected is returned when the hotel API refuses the credentials.
var ErrLoginRejected = errors.New("login rejected")

// LoginResult carries the issued session token and display fields the
// front end keeps in cookies.
type LoginResult struct {
	Token string
	Role  domain.Role
	Name  string
	Email string
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	Data    struct {
		Role  string `json:"role"`
		Name  string `json:"nama"`
		Email string `json:"email"`
	} `json:"data"`
}

func (c *Client) Login(ctx context.Context, kind LoginKind, creds domain.Credentials) (*LoginResult, error) {
	var env loginResponse
	err := c.do(ctx, http.MethodPost, kind.path(), "", creds, &env)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) && (ue.Status == http.StatusUnauthorized || ue.Status == http.StatusBadRequest || ue.Status == http.StatusNotFound) {
			return nil, &LoginError{Message: ue.Message}
		}
		return nil, err
	}
	if !env.Success || env.Token == "" {
		return nil, &LoginError{Message: env.Message}
	}

	role, ok := domain.ParseRole(env.Data.Role)
	if !ok {
		return nil, &LoginError{Message: "account role is not supported"}
	}

	email := env.Data.Email
	if email == "" {
		email = creds.Email
	}
	return &LoginResult{Token: env.Token, Role: role, Name: env.Data.Name, Email: email}, nil
}

// LoginError wraps ErrLoginRejected with the upstream message.
type LoginError struct {
	Message string
}

func (e *LoginError) Error() string {
	if e.Message == "" {
		return ErrLoginRejected.Error()
	}
	return ErrLoginRejected.Error() + ": " + e.Message
}

func (e *LoginError) Unwrap() error { return ErrLoginRejected }
