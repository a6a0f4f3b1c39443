package langgate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklog/tasklog/internal/langgate"
	"github.com/tasklog/tasklog/pkg/errclass"
)

func TestGate_NoSettingAcceptsAnything(t *testing.T) {
	g := langgate.Gate{Store: tempStore(t), Project: "p"}
	assert.NoError(t, g.Validate("これは日本語のテストタイトルです"))
}

func TestGate_NilStore(t *testing.T) {
	assert.NoError(t, langgate.Gate{}.Validate("これは日本語のテストタイトルです"))
}

func TestGate_UsesProjectSetting(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Set("p", "en"))
	require.NoError(t, s.Set("q", "ja"))

	err := langgate.Gate{Store: s, Project: "p"}.Validate("これは日本語のテストタイトルです")
	assert.True(t, errors.Is(err, errclass.ErrLangMismatch))

	assert.NoError(t, langgate.Gate{Store: s, Project: "q"}.Validate("これは日本語のテストタイトルです"))
}
