package services_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"growlokal/internal/repos"
	"growlokal/internal/services"
)

// memoMailer records outgoing links instead of talking SMTP.
type memoMailer struct {
	magicLinks []string
	resetLinks []string
}

func (m *memoMailer) SendMagicLink(to, link string) error {
	m.magicLinks = append(m.magicLinks, link)
	return nil
}

func (m *memoMailer) SendPasswordReset(to, link string) error {
	m.resetLinks = append(m.resetLinks, link)
	return nil
}

func newAuthSvc(t *testing.T) (*sqlx.DB, *services.AuthService, *memoMailer) {
	t.Helper()
	db := memdb(t)
	mailer := &memoMailer{}
	svc := services.NewAuthService(repos.NewUserRepo(db), repos.NewCartRepo(db), mailer, "http://localhost:8080")
	return db, svc, mailer
}

// linkParam pulls a query parameter out of an emailed link.
func linkParam(t *testing.T, link, key string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	return u.Query().Get(key)
}

func TestRegisterSendsMagicLink(t *testing.T) {
	db, svc, mailer := newAuthSvc(t)

	u, err := svc.Register("Lina", "lina@growlokal.test", "S3cret!!")
	if err != nil {
		t.Fatal(err)
	}
	if u.EmailVerified {
		t.Fatal("new account must start unverified")
	}
	if len(mailer.magicLinks) != 1 {
		t.Fatalf("want 1 magic link, got %d", len(mailer.magicLinks))
	}
	link := mailer.magicLinks[0]
	if !strings.Contains(link, "/verify-email?") {
		t.Fatalf("unexpected link %q", link)
	}

	token := linkParam(t, link, "token")
	if err := svc.VerifyEmail("lina@growlokal.test", token); err != nil {
		t.Fatal(err)
	}
	var verified bool
	if err := db.Get(&verified, `SELECT email_verified FROM users WHERE email='lina@growlokal.test'`); err != nil {
		t.Fatal(err)
	}
	if !verified {
		t.Fatal("verify did not flip email_verified")
	}

	// the magic link is single-use
	if err := svc.VerifyEmail("lina@growlokal.test", token); err != services.ErrBadToken {
		t.Fatalf("second use should fail, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc, _ := newAuthSvc(t)
	if _, err := svc.Register("Maria Again", "maria@growlokal.test", "S3cret!!"); err != services.ErrEmailTaken {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestForgotPasswordUnknownAddressIsSilent(t *testing.T) {
	_, svc, mailer := newAuthSvc(t)
	if err := svc.ForgotPassword("nobody@growlokal.test"); err != nil {
		t.Fatalf("unknown address must not error: %v", err)
	}
	if len(mailer.resetLinks) != 0 {
		t.Fatal("no email should be sent for an unknown address")
	}
}

func TestPasswordResetRoundTrip(t *testing.T) {
	_, svc, mailer := newAuthSvc(t)

	if err := svc.ForgotPassword("maria@growlokal.test"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.resetLinks) != 1 {
		t.Fatalf("want 1 reset link, got %d", len(mailer.resetLinks))
	}
	token := linkParam(t, mailer.resetLinks[0], "token")

	if err := svc.ResetPassword("maria@growlokal.test", token, "NewPassw0rd!"); err != nil {
		t.Fatal(err)
	}

	// old password is gone, new one works
	if _, err := svc.Login("sid-auth-1", "maria@growlokal.test", "Passw0rd!"); err != services.ErrBadCreds {
		t.Fatalf("old password should fail, got %v", err)
	}
	u, err := svc.Login("sid-auth-1", "maria@growlokal.test", "NewPassw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "maria@growlokal.test" {
		t.Fatalf("wrong user: %+v", u)
	}

	// the reset token is single-use
	if err := svc.ResetPassword("maria@growlokal.test", token, "Another1!"); err != services.ErrBadToken {
		t.Fatalf("token replay should fail, got %v", err)
	}
}

func TestPasswordResetExpiredToken(t *testing.T) {
	db, svc, _ := newAuthSvc(t)

	// plant an already-expired token
	if _, err := db.Exec(`UPDATE users SET reset_token='stale-token', reset_expires='2020-01-01 00:00:00'
	                      WHERE email='maria@growlokal.test'`); err != nil {
		t.Fatal(err)
	}
	if err := svc.ResetPassword("maria@growlokal.test", "stale-token", "NewPassw0rd!"); err != services.ErrBadToken {
		t.Fatalf("expired token must fail with ErrBadToken, got %v", err)
	}
}

func TestLoginBindsSessionAndMergesCart(t *testing.T) {
	db, svc, _ := newAuthSvc(t)
	cartSvc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	sid := "sid-auth-2"
	if _, err := cartSvc.Add(sid, "basket-abaca-001", 1); err != nil {
		t.Fatal(err)
	}

	u, err := svc.Login(sid, "maria@growlokal.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}

	cur, err := svc.CurrentUser(sid)
	if err != nil || cur.ID != u.ID {
		t.Fatalf("session not bound: %v %+v", err, cur)
	}

	// anonymous cart survives the login
	cv, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 {
		t.Fatalf("cart lost on login: %+v", cv)
	}

	if err := svc.Logout(sid); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser(sid); err == nil {
		t.Fatal("session should be unbound after logout")
	}
}
