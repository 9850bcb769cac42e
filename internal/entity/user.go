package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	FullName     *string   `gorm:"size:100" json:"full_name,omitempty"`
	Picture      *string   `gorm:"type:text" json:"picture,omitempty"`
	Phone        *string   `gorm:"size:30" json:"phone,omitempty"`
	IsAdmin      bool      `gorm:"default:true" json:"is_admin"`
	IsPublic     bool      `gorm:"default:false" json:"is_public"`
	GoogleID     *string   `gorm:"size:100;index" json:"google_id,omitempty"`
	FacebookID   *string   `gorm:"size:100;index" json:"facebook_id,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CanLogin reports whether the account holds at least one usable credential:
// a password hash or an external provider id.
func (u *User) CanLogin() bool {
	return u.PasswordHash != nil || u.GoogleID != nil || u.FacebookID != nil
}
