package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"growlokal/internal/domain"
	"growlokal/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

// Credential carries whichever proof a sign-in variant needs: a password for
// the email variant, a provider access token for the OAuth variants.
type Credential struct {
	Email       string
	Password    string
	AccessToken string
}

// Authenticator is the single sign-in contract; each variant resolves a
// credential to a local user. Session issuing happens once, above all
// variants, in AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, cred Credential) (*domain.User, error)
}

// PasswordAuthenticator checks a bcrypt hash for email-provider accounts.
type PasswordAuthenticator struct {
	Users *repos.UserRepo
}

func (a *PasswordAuthenticator) Authenticate(_ context.Context, cred Credential) (*domain.User, error) {
	u, err := a.Users.ByEmail(cred.Email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if u.Hash == "" || bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(cred.Password)) != nil {
		return nil, ErrBadCreds
	}
	return u, nil
}

// OAuthAuthenticator exchanges a provider access token for the provider's
// profile and finds or creates the linked local account.
type OAuthAuthenticator struct {
	Users       *repos.UserRepo
	Provider    string // google | facebook
	UserInfoURL string
	HTTP        *http.Client
}

type oauthProfile struct {
	ID    string `json:"id"`
	Sub   string `json:"sub"` // google uses sub, facebook uses id
	Email string `json:"email"`
	Name  string `json:"name"`

	// google sends a URL string, facebook an object with a nested url
	Picture json.RawMessage `json:"picture"`
}

func (p oauthProfile) pictureURL() string {
	var s string
	if json.Unmarshal(p.Picture, &s) == nil {
		return s
	}
	var fb struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if json.Unmarshal(p.Picture, &fb) == nil {
		return fb.Data.URL
	}
	return ""
}

func (a *OAuthAuthenticator) Authenticate(ctx context.Context, cred Credential) (*domain.User, error) {
	if cred.AccessToken == "" {
		return nil, ErrBadCreds
	}
	client := a.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s userinfo: %w", a.Provider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, ErrBadCreds
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var p oauthProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%s userinfo: %w", a.Provider, err)
	}
	if p.ID == "" {
		p.ID = p.Sub
	}
	if p.Email == "" || p.ID == "" {
		return nil, ErrBadCreds
	}

	if u, err := a.Users.ByEmail(p.Email); err == nil {
		return u, nil
	}
	id := uuid.NewString()
	if err := a.Users.CreateOAuth(id, p.Email, p.Name, a.Provider, p.ID, p.pictureURL()); err != nil {
		return nil, err
	}
	return a.Users.ByID(id)
}
