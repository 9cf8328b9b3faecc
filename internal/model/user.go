package model

import "time"

// User represents a registered account. HashedPassword is only read by the
// authentication path and is never serialised.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"type:varchar(255) COLLATE utf8mb4_bin;uniqueIndex;not null"`
	FullName       *string   `json:"full_name" gorm:"size:255"`
	HashedPassword string    `json:"-" gorm:"type:text;not null"`
	IsActive       bool      `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Items []Item `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// NewUser carries the fields required to create a user.
type NewUser struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	// IsActive defaults to true when nil.
	IsActive *bool `json:"is_active,omitempty"`
}

// Active resolves the optional IsActive flag.
func (n NewUser) Active() bool {
	if n.IsActive == nil {
		return true
	}
	return *n.IsActive
}

// UserPatch is a partial update; nil fields are left unchanged.
type UserPatch struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Columns returns the column assignments for the supplied fields.
func (p UserPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.FullName != nil {
		cols["full_name"] = *p.FullName
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	return cols
}
