// Package session holds the login state machine shared by every shell.
//
// A Session starts LoggedOut on the login page. Login moves it to LoggedIn with a
// username and role, Logout moves it back. Page access is checked against the
// state and role: every page but login needs a session, and the database page
// needs the admin role.
package session

import (
	"context"
	"fmt"

	"salescrm/internal/errors"
	"salescrm/internal/model"
)

// State is the authentication state of a session.
type State int

const (
	StateLoggedOut State = iota
	StateLoggedIn
)

func (s State) String() string {
	if s == StateLoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// Page is a navigable view.
type Page string

const (
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
	PageProducts  Page = "products"
	PageFeedback  Page = "feedback"
	PageDatabase  Page = "database"
)

var navigation = []Page{PageDashboard, PageProducts, PageFeedback, PageDatabase}

// Session is one user's login state and current page. It is not safe for
// concurrent use; each shell owns its session.
type Session struct {
	state    State
	username string
	role     model.Role
	page     Page
}

// New returns a logged-out session on the login page.
func New() *Session {
	return &Session{state: StateLoggedOut, page: PageLogin}
}

// Restore rebuilds a logged-in session from an already verified identity,
// such as the claims of a bearer token.
func Restore(username string, role model.Role) (*Session, error) {
	s := New()
	if err := s.Login(username, role); err != nil {
		return nil, err
	}
	return s, nil
}

// Login records a verified user and moves to the dashboard. Credentials must be
// checked by the caller; a failed check must leave the session untouched.
func (s *Session) Login(username string, role model.Role) error {
	if username == "" {
		return errors.Validation("username is required")
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", errors.ErrInvalidRole, role)
	}
	s.state = StateLoggedIn
	s.username = username
	s.role = role
	s.page = PageDashboard
	return nil
}

// Logout clears the identity and returns to the login page.
func (s *Session) Logout() {
	s.state = StateLoggedOut
	s.username = ""
	s.role = ""
	s.page = PageLogin
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) LoggedIn() bool {
	return s.state == StateLoggedIn
}

func (s *Session) Username() string {
	return s.username
}

func (s *Session) Role() model.Role {
	return s.role
}

// IsAdmin reports whether the session is logged in with the admin role.
func (s *Session) IsAdmin() bool {
	return s.LoggedIn() && s.role == model.RoleAdmin
}

func (s *Session) CurrentPage() Page {
	return s.page
}

// Authorize reports whether the session may open page.
func (s *Session) Authorize(page Page) error {
	switch page {
	case PageLogin:
		return nil
	case PageDashboard, PageProducts, PageFeedback:
		if !s.LoggedIn() {
			return errors.ErrNotLoggedIn
		}
		return nil
	case PageDatabase:
		if !s.LoggedIn() {
			return errors.ErrNotLoggedIn
		}
		if !s.IsAdmin() {
			return errors.ErrForbidden
		}
		return nil
	default:
		return errors.Validation(fmt.Sprintf("unknown page %q", page))
	}
}

// Navigate moves to page when Authorize allows it. A refused navigation keeps
// the current page.
func (s *Session) Navigate(page Page) error {
	if err := s.Authorize(page); err != nil {
		return err
	}
	s.page = page
	return nil
}

// Pages lists the navigation entries the session may open.
func (s *Session) Pages() []Page {
	if !s.LoggedIn() {
		return []Page{PageLogin}
	}
	pages := make([]Page, 0, len(navigation))
	for _, p := range navigation {
		if s.Authorize(p) == nil {
			pages = append(pages, p)
		}
	}
	return pages
}

type contextKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
