package textutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/textutil"
)

func TestRuneLen_NFC(t *testing.T) {
	decomposed := "e\u0301"
	assert.Equal(t, 1, textutil.RuneLen(decomposed))
	assert.Equal(t, 5, textutil.RuneLen("こんにちは"))
	assert.Equal(t, 0, textutil.RuneLen(""))
}

func TestValidateLength(t *testing.T) {
	require.NoError(t, textutil.ValidateLength("title", strings.Repeat("a", 50), 50))
	require.NoError(t, textutil.ValidateLength("title", strings.Repeat("あ", 50), 50))

	err := textutil.ValidateLength("title", strings.Repeat("a", 51), 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrFieldInvalid))
	assert.Contains(t, err.Error(), "title exceeds 50 chars (51 chars given)")
}

func TestValidateLength_Disabled(t *testing.T) {
	assert.NoError(t, textutil.ValidateLength("note", strings.Repeat("a", 1000), 0))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, textutil.ValidateRequired("title", "x"))
	assert.Error(t, textutil.ValidateRequired("title", ""))
	assert.Error(t, textutil.ValidateRequired("title", " \t "))
}

func TestValidateSingleLine(t *testing.T) {
	assert.NoError(t, textutil.ValidateSingleLine("title", "Fix the parser"))
	err := textutil.ValidateSingleLine("title", "two\nlines")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrFieldInvalid))
}

func TestValidateUTF8(t *testing.T) {
	assert.NoError(t, textutil.ValidateUTF8("title", "日本語 ok"))
	assert.NoError(t, textutil.ValidateUTF8("title", ""))

	err := textutil.ValidateUTF8("title", "bad \xff byte")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrFieldInvalid))
	assert.Contains(t, err.Error(), "title is not valid UTF-8")
}
