// Package domain defines the reaction model and the transition rules.
//
// The transition table in transition.go is the single source of truth for how
// like/dislike actions move a (user, target) pair between states and which
// counter deltas accompany each move. Storage, cache, and HTTP layers are all
// expressed against the interfaces declared here.
package domain
