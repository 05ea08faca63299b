package repos

import (
	"time"

	"threadline/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AdminRepo struct{ DB *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{DB: db} }

// ByEmail is the allow-list lookup: an identity absent from the admins table
// cannot sign in, no matter what credentials it presents.
func (r *AdminRepo) ByEmail(email string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.DB.Get(&a, `SELECT id,email,name,password_hash FROM admins WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) BindSession(sid, adminID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,admin_id,last_seen)
	                     VALUES(?,?,CURRENT_TIMESTAMP)
	                     ON CONFLICT(id) DO UPDATE SET admin_id=excluded.admin_id,last_seen=CURRENT_TIMESTAMP`, sid, adminID)
	return err
}

func (r *AdminRepo) SessionAdmin(sid string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.DB.Get(&a, `
	  SELECT a.id,a.email,a.name,a.password_hash
	  FROM sessions s
	  JOIN admins a ON a.id=s.admin_id
	  WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET admin_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// InsertLoginToken stores a one-shot emailed sign-in token.
func (r *AdminRepo) InsertLoginToken(token, adminID string, expires time.Time) error {
	_, err := r.DB.Exec(`INSERT INTO login_tokens(token,admin_id,expires_at) VALUES(?,?,?)`,
		token, adminID, expires.UTC().Format(time.RFC3339))
	return err
}

// ConsumeLoginToken marks the token used and returns its admin id. A token
// that is unknown, already used, or expired yields ("", nil).
func (r *AdminRepo) ConsumeLoginToken(token string, now time.Time) (string, error) {
	tx, err := r.DB.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var adminID string
	if err := tx.Get(&adminID, `
	  SELECT admin_id FROM login_tokens
	  WHERE token=? AND used=0 AND expires_at > ?
	`, token, now.UTC().Format(time.RFC3339)); err != nil {
		return "", nil
	}
	if _, err := tx.Exec(`UPDATE login_tokens SET used=1 WHERE token=?`, token); err != nil {
		return "", err
	}
	return adminID, tx.Commit()
}
