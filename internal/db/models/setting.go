// Package models contains database model definitions.
package models

import "time"

// Setting represents a configuration setting stored in the database.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:100"`
	Value []byte
}

// Session is a server-side session row, used when the database engine has no
// dedicated session storage driver.
type Session struct {
	Key       string     `gorm:"primaryKey;size:64"`
	Value     []byte
	ExpiresAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for the Session model.
func (Session) TableName() string {
	return "sessions"
}
