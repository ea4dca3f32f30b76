package keyname

import (
	"testing"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		key      string
		expected string
		message  string
	}{
		{key: "_x1", expected: "_x1"},
		{key: "$foo", expected: "$foo"},
		{key: "abcDEF", expected: "abcDEF"},
		{key: "  padded  ", expected: "padded"},
		{key: "", message: MsgEmpty},
		{key: "   ", message: MsgEmpty},
		{key: "1abc", message: MsgInvalid},
		{key: "a-b", message: MsgInvalid},
		{key: "a b", message: MsgInvalid},
		{key: "ключ", message: MsgInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Validate(tt.key)
			if tt.message != "" {
				assert.Error(t, err)
				assert.True(t, errors.IsValidation(err))
				assert.Equal(t, tt.message, errors.UserFriendlyError(err))
				assert.False(t, Valid(tt.key))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, Valid(tt.key))
		})
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		key      string
		expected string
		ok       bool
	}{
		{"first-name", "firstName", true},
		{"user id", "userId", true},
		{"1abc", "_1Abc", true},
		{"", "", false},
		{"valid", "", false},
		{"---", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := Suggest(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
			if ok {
				assert.True(t, Valid(got))
			}
		})
	}
}
