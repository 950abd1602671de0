package model

import "database/sql"

type User struct {
	ID        int    `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Username  string `db:"username" json:"username"`
	Password  string `db:"password" json:"-"`
	RoleID    int    `db:"role_id" json:"role_id"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type PendingUser struct {
	ID        int    `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Username  string `db:"username" json:"username"`
	Password  string `db:"password" json:"-"`
	Token     string `db:"token" json:"-"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type PasswordReset struct {
	ID        int            `db:"id" json:"id"`
	UserID    int            `db:"user_id" json:"user_id"`
	Email     string         `db:"email" json:"email"`
	Token     string         `db:"token" json:"-"`
	ExpiresAt string         `db:"expires_at" json:"expires_at"`
	UsedAt    sql.NullString `db:"used_at" json:"-"`
	CreatedAt string         `db:"created_at" json:"created_at"`
}
