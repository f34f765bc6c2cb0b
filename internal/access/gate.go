// Package access decides, per request, whether a session may open a path.
package access

import (
	"errors"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/pkg/auth"
)

type Outcome int

const (
	Proceed Outcome = iota
	RedirectToLogin
	RedirectToOwnDashboard
	RedirectToHome
	ClearSessionAndRedirectToLogin
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToOwnDashboard:
		return "redirect_to_own_dashboard"
	case RedirectToHome:
		return "redirect_to_home"
	case ClearSessionAndRedirectToLogin:
		return "clear_session_and_redirect_to_login"
	default:
		return "unknown"
	}
}

// Reason says why a decision was reached. It is what ends up in logs.
type Reason string

const (
	ReasonAllowed              Reason = "allowed"
	ReasonLoginPage            Reason = "login_page"
	ReasonNoToken              Reason = "no_token"
	ReasonTokenExpired         Reason = "token_expired"
	ReasonTokenInvalid         Reason = "token_invalid"
	ReasonRoleUnknown          Reason = "role_unknown"
	ReasonAlreadyAuthenticated Reason = "already_authenticated"
	ReasonRoleForbidden        Reason = "role_forbidden"
)

const (
	HomePath  = "/"
	LoginPath = "/auth/login"
)

type Decision struct {
	Outcome  Outcome
	Location string // redirect target, empty for Proceed
	Reason   Reason
	Session  *Session // set whenever the token verified
}

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Gate struct {
	verifier TokenVerifier
	table    Table
}

// NewGate rejects a table with a role lacking prefixes. The table is copied.
func NewGate(verifier TokenVerifier, table Table) (*Gate, error) {
	if verifier == nil {
		return nil, errors.New("access: nil token verifier")
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Gate{verifier: verifier, table: table.clone()}, nil
}

// Decide applies the rules in order: missing token, failed verification,
// login page for a signed-in user, then the role table.
func (g *Gate) Decide(token, path string) Decision {
	login := IsLoginPath(path)

	if token == "" {
		if login {
			return Decision{Outcome: Proceed, Reason: ReasonLoginPage}
		}
		return Decision{Outcome: RedirectToHome, Location: HomePath, Reason: ReasonNoToken}
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		reason := ReasonTokenInvalid
		if errors.Is(err, auth.ErrTokenExpired) {
			reason = ReasonTokenExpired
		}
		return Decision{Outcome: ClearSessionAndRedirectToLogin, Location: LoginPath, Reason: reason}
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return Decision{Outcome: ClearSessionAndRedirectToLogin, Location: LoginPath, Reason: ReasonRoleUnknown}
	}
	session := newSession(claims, role, token)

	if login {
		return Decision{
			Outcome:  RedirectToOwnDashboard,
			Location: role.Dashboard(),
			Reason:   ReasonAlreadyAuthenticated,
			Session:  session,
		}
	}

	if !g.table.Allows(role, path) {
		return Decision{Outcome: RedirectToHome, Location: HomePath, Reason: ReasonRoleForbidden, Session: session}
	}
	return Decision{Outcome: Proceed, Reason: ReasonAllowed, Session: session}
}
