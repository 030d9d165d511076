package pathresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_NoPatternsMatchesEverything(t *testing.T) {
	assert.True(t, Match("anything", nil))
	assert.True(t, Match(".hidden", nil))
}

func TestMatch_Star(t *testing.T) {
	assert.True(t, Match("readme.txt", []string{"*.txt"}))
	assert.False(t, Match("readme.md", []string{"*.txt"}))
	assert.True(t, Match("anything", []string{"*"}))
}

func TestMatch_Question(t *testing.T) {
	assert.True(t, Match("cat", []string{"c?t"}))
	assert.False(t, Match("coat", []string{"c?t"}))
}

func TestMatch_CharacterClass(t *testing.T) {
	assert.True(t, Match("file1", []string{"file[0-9]"}))
	assert.False(t, Match("fileA", []string{"file[0-9]"}))
	assert.True(t, Match("fileA", []string{"file[!0-9]"}))
}

func TestMatch_HiddenFileRequiresExplicitDot(t *testing.T) {
	assert.False(t, Match(".profile", []string{"*"}))
	assert.True(t, Match(".profile", []string{".*"}))
	assert.True(t, Match(".profile", []string{".profile"}))
}

func TestMatch_MultiplePatternsOrMatch(t *testing.T) {
	assert.True(t, Match("b.go", []string{"*.txt", "*.go"}))
	assert.False(t, Match("b.rs", []string{"*.txt", "*.go"}))
}

func TestMatch_ExactName(t *testing.T) {
	assert.True(t, Match("exact", []string{"exact"}))
	assert.False(t, Match("exactly", []string{"exact"}))
}
