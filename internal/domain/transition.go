package domain

import "fmt"

// State is the derived reaction state for a (user, target) pair.
type State int

const (
	StateNone State = iota
	StateLiked
	StateDisliked
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateLiked:
		return "liked"
	case StateDisliked:
		return "disliked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StateFromKind maps a stored reaction kind to the derived state.
func StateFromKind(k ReactionKind) State {
	switch k {
	case KindLike:
		return StateLiked
	case KindDislike:
		return StateDisliked
	default:
		return StateNone
	}
}

// Action is a requested reaction change.
type Action string

const (
	ActionLike          Action = "like"
	ActionDislike       Action = "dislike"
	ActionCancelLike    Action = "cancel_like"
	ActionCancelDislike Action = "cancel_dislike"
)

// ParseAction converts a request string into an Action.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionLike, ActionDislike, ActionCancelLike, ActionCancelDislike:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// RowOp is the single row mutation a transition requires.
type RowOp int

const (
	OpInsert RowOp = iota
	OpUpdate
	OpDelete
)

// Transition describes the outcome of applying an action to a current state:
// the next state, the row operation, and the relative counter deltas.
type Transition struct {
	Next         State
	Op           RowOp
	LikeDelta    int
	DislikeDelta int
}

// Kind returns the reaction kind the transition's row should hold.
// Only meaningful for OpInsert and OpUpdate.
func (t Transition) Kind() ReactionKind {
	if t.Next == StateDisliked {
		return KindDislike
	}
	return KindLike
}

type transitionKey struct {
	current State
	action  Action
}

// transitions is the full state machine. Missing entries are invalid
// requests; invalidity reason is resolved in Resolve.
var transitions = map[transitionKey]Transition{
	{StateNone, ActionLike}:             {Next: StateLiked, Op: OpInsert, LikeDelta: +1},
	{StateNone, ActionDislike}:          {Next: StateDisliked, Op: OpInsert, DislikeDelta: +1},
	{StateLiked, ActionCancelLike}:      {Next: StateNone, Op: OpDelete, LikeDelta: -1},
	{StateDisliked, ActionCancelDislike}: {Next: StateNone, Op: OpDelete, DislikeDelta: -1},
	{StateLiked, ActionDislike}:         {Next: StateDisliked, Op: OpUpdate, LikeDelta: -1, DislikeDelta: +1},
	{StateDisliked, ActionLike}:         {Next: StateLiked, Op: OpUpdate, LikeDelta: +1, DislikeDelta: -1},
}

// Resolve consults the transition table and returns the resulting transition,
// or the business error describing why the action is inconsistent with the
// current state.
func Resolve(current State, action Action) (Transition, error) {
	if t, ok := transitions[transitionKey{current, action}]; ok {
		return t, nil
	}

	switch action {
	case ActionLike, ActionDislike:
		// Only reachable when the requested reaction already exists.
		return Transition{}, ErrAlreadyReacted
	case ActionCancelLike, ActionCancelDislike:
		if current == StateNone {
			return Transition{}, ErrNoReactionToCancel
		}
		return Transition{}, ErrReactionMismatch
	default:
		return Transition{}, fmt.Errorf("unknown action %q", action)
	}
}
