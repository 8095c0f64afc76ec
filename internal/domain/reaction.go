package domain

import (
	"fmt"
	"time"
)

// TargetType identifies the kind of entity a reaction attaches to.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetComment
}

// ParseTargetType converts a string (e.g. from a URL segment) into a TargetType.
func ParseTargetType(s string) (TargetType, error) {
	t := TargetType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown target type %q", s)
	}
	return t, nil
}

// TargetRef identifies a single reactable entity.
type TargetRef struct {
	Type TargetType
	ID   int64
}

func (t TargetRef) String() string {
	return fmt.Sprintf("%s/%d", t.Type, t.ID)
}

// ReactionKind is the polarity of a stored reaction row.
type ReactionKind int16

const (
	KindLike    ReactionKind = 1
	KindDislike ReactionKind = -1
)

func (k ReactionKind) String() string {
	switch k {
	case KindLike:
		return "like"
	case KindDislike:
		return "dislike"
	default:
		return fmt.Sprintf("kind(%d)", int16(k))
	}
}

// Reaction is a user's stored like or dislike of a target. At most one row
// exists per (UserID, Target); absence of a row means no reaction.
type Reaction struct {
	ID        int64
	UserID    int64
	Target    TargetRef
	Kind      ReactionKind
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Target carries the authoritative per-entity aggregate counters along with
// the owning user, which the dispatcher needs for notifications.
type Target struct {
	Ref          TargetRef
	OwnerUserID  int64
	LikeCount    int
	DislikeCount int
}

// ReactionStatus is the answer to "has this user reacted to this target".
type ReactionStatus struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}
