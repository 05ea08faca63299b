package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"threadline/internal/domain"
	"threadline/internal/mail"
	"threadline/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds     = errors.New("invalid email or password")
	ErrBadLoginLink = errors.New("sign-in link is invalid or expired")
)

// Login-link emails expire after this window; each token is single-use.
const loginLinkTTL = 15 * time.Minute

type AuthService struct {
	Admins  *repos.AdminRepo
	Mail    mail.Sender
	BaseURL string
}

// Login checks the allow-list and password, then binds the session cookie to
// the admin identity.
func (s *AuthService) Login(sid, email, password string) (*domain.Admin, error) {
	a, err := s.Admins.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Admins.BindSession(sid, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

// SendLoginLink emails a one-shot sign-in link to an allow-listed address.
// Addresses not on the list get ErrBadCreds; the handler shows the same
// message either way so the list cannot be probed.
func (s *AuthService) SendLoginLink(email string) error {
	a, err := s.Admins.ByEmail(email)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBadCreds
	}
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.Admins.InsertLoginToken(token, a.ID, time.Now().Add(loginLinkTTL)); err != nil {
		return err
	}
	link := fmt.Sprintf("%s/admin/login/verify?token=%s", s.BaseURL, token)
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Use this link to sign in to the dashboard. It expires in %d minutes.</p><p><a href="%s">Sign in</a></p>`,
		a.Name, int(loginLinkTTL.Minutes()), link)
	return s.Mail.Send(a.Email, "Your sign-in link", body)
}

// VerifyLoginLink consumes a token and binds the session on success.
func (s *AuthService) VerifyLoginLink(sid, token string) (*domain.Admin, error) {
	adminID, err := s.Admins.ConsumeLoginToken(token, time.Now())
	if err != nil {
		return nil, err
	}
	if adminID == "" {
		return nil, ErrBadLoginLink
	}
	if err := s.Admins.BindSession(sid, adminID); err != nil {
		return nil, err
	}
	return s.Admins.SessionAdmin(sid)
}

func (s *AuthService) Logout(sid string) error {
	return s.Admins.UnbindSession(sid)
}

func (s *AuthService) CurrentAdmin(sid string) (*domain.Admin, error) {
	return s.Admins.SessionAdmin(sid)
}
