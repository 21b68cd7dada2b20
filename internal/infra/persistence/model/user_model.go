// Package model contains the GORM persistence models mirroring the database
// schema. They are exported so the GORM Gen tool can consume them.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. Email and phone are nullable so that
// either identifier can be absent; PostgreSQL unique indexes ignore NULLs.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email     *string   `gorm:"type:varchar(255);uniqueIndex"`
	Phone     *string   `gorm:"type:varchar(32);uniqueIndex"`
	FullName  string    `gorm:"type:varchar(100)"`
	Role      string    `gorm:"type:varchar(10);not null;default:'USER'"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	LoginMethods []LoginMethodModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// LoginMethodModel mirrors the 'login_methods' table. The (provider,
// provider_user_id) pair is globally unique so one normalized identifier can
// only ever belong to one account.
type LoginMethodModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Provider       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_login_methods_provider_provider_user_id"`
	ProviderUserID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_login_methods_provider_provider_user_id"`
	Email          *string   `gorm:"type:varchar(255)"`
	Phone          *string   `gorm:"type:varchar(32)"`
	PasswordHash   string    `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (LoginMethodModel) TableName() string {
	return "login_methods"
}

// SessionModel mirrors the 'sessions' table. Only refresh token digests are
// stored; the raw token never touches the database.
type SessionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenDigest string    `gorm:"type:varchar(255);not null"`
	UserAgent   string    `gorm:"type:varchar(512)"`
	IP          string    `gorm:"type:varchar(64)"`
	ExpiresAt   time.Time `gorm:"not null;index"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}
