package domain

import "time"

// User is a registered shop account.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Address is a shipping address captured at checkout.
type Address struct {
	ID         int64
	UserID     int64
	FullName   string
	Street     string
	City       string
	PostalCode string
	Country    string
	CreatedAt  time.Time
}
