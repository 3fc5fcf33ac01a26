package models

import "time"

// User is a record in the user directory. The directory is owned by the
// authentication service; this service only reads it to resolve usernames.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
