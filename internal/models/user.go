package models

import "time"

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string    `json:"-" gorm:"column:password;type:varchar(255);not null"` // never serialized
	Username     string    `json:"username,omitempty" gorm:"type:varchar(100)"`
	Bio          string    `json:"bio,omitempty" gorm:"type:text"`
	Location     string    `json:"location,omitempty" gorm:"type:varchar(255)"`
	Website      string    `json:"website,omitempty" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// ProfileUpdate carries the editable profile columns. Every field is written
// on update; an absent value blanks the column.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Website  string `json:"website"`
}
