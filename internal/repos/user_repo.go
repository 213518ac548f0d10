package repos

import (
	"growlokal/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,role,provider,provider_id,email_verified,
       full_name,phone,street,city,province,postal_code,gender,picture`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new password-auth user with a pending verification token.
func (r *UserRepo) Create(id, email, name, hash, verifyToken, verifyExpires string) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,name,password_hash,role,provider,email_verified,verify_token,verify_expires)
		VALUES(?,?,?,?,'USER','email',0,?,?)
	`, id, email, name, hash, verifyToken, verifyExpires)
	return err
}

// CreateOAuth inserts a user linked to an external identity provider.
// OAuth accounts arrive with a provider-verified email.
func (r *UserRepo) CreateOAuth(id, email, name, provider, providerID, picture string) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,name,role,provider,provider_id,email_verified,picture)
		VALUES(?,?,?,'USER',?,?,1,?)
	`, id, email, name, provider, providerID, picture)
	return err
}

// VerifyEmail consumes a magic-link token. Expiry is part of the match;
// a stale token updates no rows.
func (r *UserRepo) VerifyEmail(email, token string) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE users
		SET email_verified=1, verify_token=NULL, verify_expires=NULL, updated_at=CURRENT_TIMESTAMP
		WHERE LOWER(email)=LOWER(?) AND verify_token=? AND verify_expires > datetime('now')
	`, email, token)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetResetToken stores a password-reset token for a verified account.
func (r *UserRepo) SetResetToken(email, token, expires string) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE users SET reset_token=?, reset_expires=?, updated_at=CURRENT_TIMESTAMP
		WHERE LOWER(email)=LOWER(?) AND email_verified=1
	`, token, expires, email)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ResetPassword swaps the hash and clears the token in one statement, so a
// token can never be replayed. Expiry is checked in the match, never token
// presence alone.
func (r *UserRepo) ResetPassword(email, token, newHash string) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE users
		SET password_hash=?, reset_token=NULL, reset_expires=NULL, updated_at=CURRENT_TIMESTAMP
		WHERE LOWER(email)=LOWER(?) AND reset_token=? AND reset_expires > datetime('now')
	`, newHash, email, token)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *UserRepo) UpdateProfile(id string, p domain.User) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET full_name=?, phone=?, street=?, city=?, province=?, postal_code=?, gender=?, picture=?,
		    updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, p.FullName, p.Phone, p.Street, p.City, p.Province, p.PostalCode, p.Gender, p.Picture, id)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role,u.provider,u.provider_id,u.email_verified,
             u.full_name,u.phone,u.street,u.city,u.province,u.postal_code,u.gender,u.picture
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
