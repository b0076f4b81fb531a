package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScopeKind discriminates catalog template ownership.
type ScopeKind int

const (
	// ScopeGlobal marks a system-wide template visible to every user.
	ScopeGlobal ScopeKind = iota
	// ScopeUser marks a template owned by a single user.
	ScopeUser
)

// Scope identifies who a catalog template belongs to. Modeled explicitly so
// the lookup precedence (user-scoped before global) is a total switch rather
// than a field-presence check.
type Scope struct {
	Kind   ScopeKind
	UserID string
}

// GlobalScope returns the scope of system-wide templates.
func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}

// UserScope returns the scope of templates owned by the given user.
func UserScope(userID string) Scope {
	return Scope{Kind: ScopeUser, UserID: userID}
}

// StoredExercise is a reusable catalog template for an exercise type. It is
// consulted when normalizing free-text exercise names; workouts never
// reference it directly.
type StoredExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Type        string             `bson:"type,omitempty" json:"type,omitempty"`
	Description string             `bson:"description" json:"description"`
	GifURL      string             `bson:"gifUrl" json:"gifUrl"`
	BodyPart    string             `bson:"bodyPart" json:"bodyPart"`
	Equipment   string             `bson:"equipment" json:"equipment"`

	// OwnerID is empty for global templates. Use Scope to branch on ownership.
	OwnerID string `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
}

// Scope reports whether the template is global or user-owned.
func (s *StoredExercise) Scope() Scope {
	if s.OwnerID == "" {
		return GlobalScope()
	}
	return UserScope(s.OwnerID)
}
