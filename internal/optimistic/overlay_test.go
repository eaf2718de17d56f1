package optimistic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	base := []string{"a", "b"}

	overlay := Apply(base, "x", AppendReducer[string])
	assert.Equal(t, []string{"a", "b", "x"}, overlay)
	assert.Equal(t, []string{"a", "b"}, base, "base is not modified")

	assert.Equal(t, []string{"a", "b", "y"}, Apply(base, "y", nil))

	prepend := func(state []string, v string) []string { return append([]string{v}, state...) }
	assert.Equal(t, []string{"z", "a", "b"}, Apply(base, "z", prepend))
}

func TestBoard_RollbackRevertsToBase(t *testing.T) {
	b := NewBoard([]string{"a", "b"}, nil)

	p := b.Add("x")
	assert.Equal(t, []string{"a", "b", "x"}, b.View())

	p.Rollback()
	assert.Equal(t, []string{"a", "b"}, b.View())
	assert.Equal(t, 0, b.PendingCount())
}

func TestBoard_CommittedOverlayReplacedByGroundTruth(t *testing.T) {
	b := NewBoard([]string{"a", "b"}, nil)

	p := b.Add("x")
	p.Commit([]string{"a", "b", "other", "x"})

	assert.Equal(t, []string{"a", "b", "other", "x"}, b.View())
	assert.Equal(t, []string{"a", "b", "other", "x"}, b.Base())
}

func TestBoard_RapidSubmissionsQueueInOrder(t *testing.T) {
	b := NewBoard([]string{"a"}, nil)

	first := b.Add("1")
	second := b.Add("2")
	third := b.Add("3")
	assert.Equal(t, []string{"a", "1", "2", "3"}, b.View())

	second.Rollback()
	assert.Equal(t, []string{"a", "1", "3"}, b.View())

	first.Commit([]string{"a", "1"})
	assert.Equal(t, []string{"a", "1", "3"}, b.View())

	third.Rollback()
	assert.Equal(t, []string{"a", "1"}, b.View())
}

func TestPending_ResolvesOnce(t *testing.T) {
	b := NewBoard([]string{"a"}, nil)

	p := b.Add("x")
	p.Rollback()
	p.Commit([]string{"should", "not", "apply"})
	p.Confirm()

	assert.Equal(t, []string{"a"}, b.View())
	assert.Equal(t, "x", p.Value())
}

func TestPending_Confirm(t *testing.T) {
	b := NewBoard([]string{"a"}, nil)
	p := b.Add("x")
	p.Confirm()

	assert.Equal(t, []string{"a", "x"}, b.Base())
	assert.Equal(t, 0, b.PendingCount())
}

func TestBoard_ResetKeepsPending(t *testing.T) {
	b := NewBoard([]string{"a"}, nil)
	b.Add("x")

	b.Reset([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b", "x"}, b.View())
}

func TestBoard_ViewIsACopy(t *testing.T) {
	base := []string{"a"}
	b := NewBoard(base, nil)
	base[0] = "mutated"

	view := b.View()
	view[0] = "changed"
	assert.Equal(t, []string{"a"}, b.View())
}

func TestSubmit_FailureRollsBack(t *testing.T) {
	b := NewBoard([]string{"a", "b"}, nil)
	mutationErr := errors.New("store unavailable")

	var seenDuringMutation []string
	err := Submit(context.Background(), b, "x",
		func(context.Context, string) error {
			seenDuringMutation = b.View()
			return mutationErr
		},
		func(context.Context) ([]string, error) {
			t.Fatal("refetch must not run after a failed mutation")
			return nil, nil
		},
	)

	assert.ErrorIs(t, err, mutationErr)
	assert.Equal(t, []string{"a", "b", "x"}, seenDuringMutation, "overlay is visible before the mutation resolves")
	assert.Equal(t, []string{"a", "b"}, b.View())
}

func TestSubmit_SuccessCommitsRefetch(t *testing.T) {
	b := NewBoard([]string{"a", "b"}, nil)

	err := Submit(context.Background(), b, "x",
		func(context.Context, string) error { return nil },
		func(context.Context) ([]string, error) { return []string{"a", "b", "x"}, nil },
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "x"}, b.View())
	assert.Equal(t, 0, b.PendingCount())
}

func TestSubmit_RefetchFailureKeepsValue(t *testing.T) {
	b := NewBoard([]string{"a"}, nil)

	err := Submit(context.Background(), b, "x",
		func(context.Context, string) error { return nil },
		func(context.Context) ([]string, error) { return nil, errors.New("timeout") },
	)

	assert.ErrorIs(t, err, ErrRefetchFailed)
	assert.Equal(t, []string{"a", "x"}, b.View())
}
