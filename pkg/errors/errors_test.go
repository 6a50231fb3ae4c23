package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *SavesyncError
		want string
	}{
		{
			name: "plain error",
			err:  New(ErrLinkCreate, "cannot create link"),
			want: "[LINK_CREATE] cannot create link",
		},
		{
			name: "wrapped error",
			err:  Wrap(fmt.Errorf("permission denied"), ErrLinkCreate, "cannot create link"),
			want: "[LINK_CREATE] cannot create link: permission denied",
		},
		{
			name: "formatted error",
			err:  Newf(ErrExeNotFound, "no executable in %s", "th07"),
			want: "[EXE_NOT_FOUND] no executable in th07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "should be nil"))
	assert.Nil(t, Wrapf(nil, ErrInternal, "should be %s", "nil"))
}

func TestErrorCodeMatching(t *testing.T) {
	inner := New(ErrMergeConflict, "pull left unmerged paths")
	outer := fmt.Errorf("pre-sync: %w", inner)

	assert.True(t, IsErrorCode(outer, ErrMergeConflict))
	assert.False(t, IsErrorCode(outer, ErrPushRejected))
	assert.Equal(t, ErrMergeConflict, GetErrorCode(outer))
	assert.Equal(t, ErrUnknown, GetErrorCode(stderrors.New("plain")))
}

func TestErrorsIs(t *testing.T) {
	err := Wrap(fmt.Errorf("locked"), ErrStagingLocked, "staging failed")
	assert.True(t, stderrors.Is(err, New(ErrStagingLocked, "")))
	assert.False(t, stderrors.Is(err, New(ErrPushRejected, "")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrConfigFetch, "no manifest").
		WithDetail("game", "th07").
		WithDetail("url", "https://example.com/th07.json")

	assert.Equal(t, "th07", err.Details["game"])
	assert.Equal(t, "https://example.com/th07.json", err.Details["url"])
}
