// File: entities/user.go
package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"not null" json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL string    `json:"avatar,omitempty"`
	Password  string    `gorm:"not null" json:"-"`

	Timestamp
}

// Subscription is a directed follow relation: User follows Author.
type Subscription struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"uniqueIndex:idx_subscription_pair" json:"user_id"`
	AuthorID uuid.UUID `gorm:"uniqueIndex:idx_subscription_pair" json:"author_id"`

	User   *User `gorm:"foreignKey:UserID"`
	Author *User `gorm:"foreignKey:AuthorID"`
	Timestamp
}
