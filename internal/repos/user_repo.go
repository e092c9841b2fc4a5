package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"petcare/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateWithProfile inserts the user and its profile in one transaction.
func (r *UserRepo) CreateWithProfile(ctx context.Context, u domain.User, p domain.Profile) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users(id,username,email,password_hash,role,created_at)
		VALUES(?,?,?,?,?,?)
	`, u.ID, u.Username, u.Email, u.Hash, u.Role, p.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Username, domain.ErrDuplicate)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles(user_id,phone_number,created_at) VALUES(?,?,?)
	`, u.ID, p.Phone, p.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *UserRepo) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT id,username,email,password_hash,role FROM users WHERE LOWER(username)=LOWER(?)`, username)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.DB.GetContext(ctx, &p, `SELECT user_id,phone_number,created_at FROM profiles WHERE user_id=?`, userID)
	if err != nil {
		return domain.Profile{}, notFound(err, "profile")
	}
	return p, nil
}

func (r *UserRepo) BindSession(ctx context.Context, sid, userID string) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(ctx context.Context, sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `
      SELECT u.id,u.username,u.email,u.password_hash,u.role
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, notFound(err, "session")
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// ownedTables hold rows that belong exclusively to a user.
var ownedTables = []string{"rescue_requests", "adoption_requests", "bookings", "orders", "sessions", "profiles"}

// DeleteUserCascade removes the user and everything it owns.
func (r *UserRepo) DeleteUserCascade(ctx context.Context, userID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range ownedTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id=?`, userID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return tx.Commit()
}

// List returns every account for the staff user list, admins last.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.SelectContext(ctx, &out, `SELECT id,username,email,password_hash,role FROM users ORDER BY role DESC, LOWER(username)`)
	return out, err
}
