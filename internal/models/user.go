package models

import "time"

// User roles
const (
	RoleGuest = "guest"
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"default:user" json:"role"` // guest, user, admin
	Avatar   string `json:"avatar"`                   // Stores avatar ID or URL
	Phone    string `json:"phone,omitempty"`          // Optional, for SMS announcements

	Reputation int    `gorm:"default:0" json:"reputation"`
	IsBanned   bool   `gorm:"default:false" json:"is_banned"`
	BanReason  string `json:"ban_reason"`

	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicProfile strips credentials and moderation details for public reads.
func (u User) PublicProfile() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"avatar":     u.Avatar,
		"reputation": u.Reputation,
		"role":       u.Role,
		"created_at": u.CreatedAt,
		"last_seen":  u.LastSeen,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}
