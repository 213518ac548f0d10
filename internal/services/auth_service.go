package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"growlokal/internal/domain"
	"growlokal/internal/mail"
	"growlokal/internal/repos"
)

var (
	ErrEmailTaken = errors.New("an account with this email already exists")
	ErrBadToken   = errors.New("invalid or expired token")
)

const tokenTTL = time.Hour

type AuthService struct {
	Users   *repos.UserRepo
	Carts   *repos.CartRepo
	Mailer  mail.Mailer
	BaseURL string

	// Sign-in variants keyed by provider name; "email" is the password path.
	Authenticators map[string]Authenticator
}

func NewAuthService(users *repos.UserRepo, carts *repos.CartRepo, mailer mail.Mailer, baseURL string) *AuthService {
	return &AuthService{
		Users:   users,
		Carts:   carts,
		Mailer:  mailer,
		BaseURL: baseURL,
		Authenticators: map[string]Authenticator{
			"email": &PasswordAuthenticator{Users: users},
			"google": &OAuthAuthenticator{
				Users: users, Provider: "google",
				UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
			},
			"facebook": &OAuthAuthenticator{
				Users: users, Provider: "facebook",
				UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
			},
		},
	}
}

func newToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// tokenExpiry formats in sqlite's datetime('now') layout so expiry can be
// compared in the query.
func tokenExpiry() string {
	return time.Now().UTC().Add(tokenTTL).Format("2006-01-02 15:04:05")
}

// Register creates an unverified account and emails a magic link. A failed
// email send does not fail registration; the account simply stays
// unverified until the link is re-requested.
func (s *AuthService) Register(name, email, password string) (*domain.User, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	token := newToken()
	if err := s.Users.Create(id, email, name, string(hash), token, tokenExpiry()); err != nil {
		return nil, err
	}
	link := s.BaseURL + "/verify-email?token=" + token + "&email=" + url.QueryEscape(email)
	if err := s.Mailer.SendMagicLink(email, link); err != nil {
		log.Printf("[mail] verification email to %s failed: %v", email, err)
	}
	return s.Users.ByID(id)
}

func (s *AuthService) VerifyEmail(email, token string) error {
	ok, err := s.Users.VerifyEmail(email, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadToken
	}
	return nil
}

// ForgotPassword issues a 1-hour reset token and emails a reset link. The
// caller's response never discloses whether the account exists.
func (s *AuthService) ForgotPassword(email string) error {
	token := newToken()
	ok, err := s.Users.SetResetToken(email, token, tokenExpiry())
	if err != nil {
		return err
	}
	if !ok {
		// Unknown or unverified address: nothing to send.
		return nil
	}
	link := s.BaseURL + "/reset-password?token=" + token + "&email=" + url.QueryEscape(email)
	return s.Mailer.SendPasswordReset(email, link)
}

func (s *AuthService) ResetPassword(email, token, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return err
	}
	ok, err := s.Users.ResetPassword(email, token, string(hash))
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadToken
	}
	return nil
}

// SignIn resolves the credential through the named variant, binds the
// session and folds any anonymous cart into the user's cart.
func (s *AuthService) SignIn(ctx context.Context, sid, provider string, cred Credential) (*domain.User, error) {
	auth, ok := s.Authenticators[provider]
	if !ok {
		return nil, ErrBadCreds
	}
	u, err := auth.Authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	if s.Carts != nil {
		if err := s.Carts.MergeForLogin(u.ID, sid); err != nil {
			log.Printf("[cart] merge for %s failed: %v", u.ID, err)
		}
	}
	return u, nil
}

// Login is the password path of SignIn.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	return s.SignIn(context.Background(), sid, "email", Credential{Email: email, Password: password})
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
