package models

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	Name         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
