package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	Hash     string `db:"password_hash"`
	Role     string `db:"role"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Profile is the zero-or-one record attached to a User.
type Profile struct {
	UserID    string `db:"user_id"`
	Phone     string `db:"phone_number"`
	CreatedAt string `db:"created_at"`
}
