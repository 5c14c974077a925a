package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttrs(t *testing.T) {
	out := NormalizeAttrs([]NoteAttr{
		{Key: "author", Value: "a"},
		{Key: "", Value: "dropped"},
		{Key: "lang", Value: "zh"},
		{Key: "author", Value: "b"},
	})
	assert.Equal(t, []NoteAttr{{Key: "author", Value: "b"}, {Key: "lang", Value: "zh"}}, out)
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{}, StringList(nil))
	assert.Equal(t, []string{"a"}, StringList([]string{"a"}))
}
