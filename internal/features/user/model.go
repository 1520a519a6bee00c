package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is a reviewer account. Role is one of the enum values defined in the
// role package; assignment rotation uses LastAssignedAt.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Password       string             `bson:"password" json:"-"`
	Email          string             `bson:"email" json:"email"`
	Role           string             `bson:"role" json:"role"`
	Status         string             `bson:"status" json:"status"`
	LastAssignedAt *time.Time         `bson:"last_assigned_at,omitempty" json:"last_assigned_at,omitempty"`
	LastLogin      *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
