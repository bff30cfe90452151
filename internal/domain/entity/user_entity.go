package entity

import (
	"time"
)

// Profile defaults applied at sign-up when the client omits a field.
const (
	DefaultUserName   = "Jacques-Yves Cousteau"
	DefaultUserAbout  = "Explorer"
	DefaultUserAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field and never serialized.
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email" validate:"required,min=3,max=30,email"`
	Password  string    `json:"-" validate:"required"`
	Name      string    `json:"name" validate:"required,username"`
	About     string    `json:"about" validate:"required,userabout"`
	Avatar    string    `json:"avatar" validate:"required,weblink"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfilePatch carries the optional fields of a profile update; nil means
// unchanged.
type ProfilePatch struct {
	Name   *string
	About  *string
	Avatar *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.About == nil && p.Avatar == nil
}

// Apply copies the set fields onto u.
func (p ProfilePatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.About != nil {
		u.About = *p.About
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}
