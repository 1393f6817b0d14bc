package models

import "database/sql"

type User struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Fullname     string `json:"fullname" db:"fullname"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	Section      string `json:"section,omitempty" db:"section"`
	Rank         string `json:"rank,omitempty" db:"rank"`
	IsActive     bool   `json:"is_active" db:"is_active"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Fullname string `json:"fullname" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Section  string `json:"section"`
	Rank     string `json:"rank"`
}

// FlatUserRecord mirrors a users row; section and rank are nullable, only
// local-store staff carry a section.
type FlatUserRecord struct {
	ID           int            `db:"id"`
	Username     string         `db:"username"`
	Fullname     string         `db:"fullname"`
	PasswordHash string         `db:"password_hash"`
	Role         string         `db:"role"`
	Section      sql.NullString `db:"section"`
	Rank         sql.NullString `db:"rank"`
	IsActive     bool           `db:"is_active"`
}

func (f *FlatUserRecord) TransformToUser() User {
	return User{
		ID:           f.ID,
		Username:     f.Username,
		Fullname:     f.Fullname,
		PasswordHash: f.PasswordHash,
		Role:         f.Role,
		Section:      f.Section.String,
		Rank:         f.Rank.String,
		IsActive:     f.IsActive,
	}
}

func (u *User) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   u.ID,
		ResourceType: "user",
	}
}
