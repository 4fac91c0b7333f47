package models

import "time"

// User maps to the `users` table backing the dashboard login flow.
// Pure data; no server-side authorization logic lives in this service.
type User struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OpenID       string    `gorm:"column:open_id;size:64;uniqueIndex" json:"openId"`
	Name         string    `gorm:"column:name;size:255" json:"name"`
	Email        string    `gorm:"column:email;size:320" json:"email"`
	LoginMethod  string    `gorm:"column:login_method;size:64" json:"loginMethod"`
	Role         string    `gorm:"column:role;size:16;default:user" json:"role"`
	LastSignedIn time.Time `gorm:"column:last_signed_in" json:"lastSignedIn"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
