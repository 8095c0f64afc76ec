package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ValidTransitions(t *testing.T) {
	tests := []struct {
		name         string
		current      State
		action       Action
		next         State
		op           RowOp
		likeDelta    int
		dislikeDelta int
	}{
		{"first like", StateNone, ActionLike, StateLiked, OpInsert, +1, 0},
		{"first dislike", StateNone, ActionDislike, StateDisliked, OpInsert, 0, +1},
		{"cancel like", StateLiked, ActionCancelLike, StateNone, OpDelete, -1, 0},
		{"cancel dislike", StateDisliked, ActionCancelDislike, StateNone, OpDelete, 0, -1},
		{"flip like to dislike", StateLiked, ActionDislike, StateDisliked, OpUpdate, -1, +1},
		{"flip dislike to like", StateDisliked, ActionLike, StateLiked, OpUpdate, +1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Resolve(tt.current, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.next, tr.Next)
			assert.Equal(t, tt.op, tr.Op)
			assert.Equal(t, tt.likeDelta, tr.LikeDelta)
			assert.Equal(t, tt.dislikeDelta, tr.DislikeDelta)
		})
	}
}

func TestResolve_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		current State
		action  Action
		wantErr error
	}{
		{"double like", StateLiked, ActionLike, ErrAlreadyReacted},
		{"double dislike", StateDisliked, ActionDislike, ErrAlreadyReacted},
		{"cancel like with no reaction", StateNone, ActionCancelLike, ErrNoReactionToCancel},
		{"cancel dislike with no reaction", StateNone, ActionCancelDislike, ErrNoReactionToCancel},
		{"cancel dislike while liked", StateLiked, ActionCancelDislike, ErrReactionMismatch},
		{"cancel like while disliked", StateDisliked, ActionCancelLike, ErrReactionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.current, tt.action)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve_DeltasNetToZeroOnRoundTrip(t *testing.T) {
	// like then cancel-like must sum to zero on both counters
	likeTr, err := Resolve(StateNone, ActionLike)
	require.NoError(t, err)
	cancelTr, err := Resolve(likeTr.Next, ActionCancelLike)
	require.NoError(t, err)

	assert.Zero(t, likeTr.LikeDelta+cancelTr.LikeDelta)
	assert.Zero(t, likeTr.DislikeDelta+cancelTr.DislikeDelta)
}

func TestTransitionKind(t *testing.T) {
	tr, err := Resolve(StateNone, ActionLike)
	require.NoError(t, err)
	assert.Equal(t, KindLike, tr.Kind())

	tr, err = Resolve(StateLiked, ActionDislike)
	require.NoError(t, err)
	assert.Equal(t, KindDislike, tr.Kind())
}

func TestStateFromKind(t *testing.T) {
	assert.Equal(t, StateLiked, StateFromKind(KindLike))
	assert.Equal(t, StateDisliked, StateFromKind(KindDislike))
	assert.Equal(t, StateNone, StateFromKind(ReactionKind(0)))
}

func TestParseAction(t *testing.T) {
	for _, valid := range []string{"like", "dislike", "cancel_like", "cancel_dislike"} {
		_, err := ParseAction(valid)
		assert.NoError(t, err, valid)
	}

	_, err := ParseAction("upvote")
	assert.Error(t, err)
}

func TestParseTargetType(t *testing.T) {
	tt, err := ParseTargetType("post")
	require.NoError(t, err)
	assert.Equal(t, TargetPost, tt)

	tt, err = ParseTargetType("comment")
	require.NoError(t, err)
	assert.Equal(t, TargetComment, tt)

	_, err = ParseTargetType("thread")
	assert.Error(t, err)
}

func TestIsBusinessError(t *testing.T) {
	assert.True(t, IsBusinessError(ErrAlreadyReacted))
	assert.True(t, IsBusinessError(ErrTargetNotFound))
	assert.False(t, IsBusinessError(assert.AnError))
	assert.False(t, IsBusinessError(nil))
}
