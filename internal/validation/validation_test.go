package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"abc", "alice", "user_42", "some-name", strings.Repeat("a", 30)}
	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), name)
	}

	invalid := []string{
		"ab",
		strings.Repeat("a", 31),
		"bad name",
		"bad!name",
		"_leading",
		"trailing-",
		"new",
		"follow",
		"login",
	}
	for _, name := range invalid {
		assert.Error(t, ValidateUsername(name), name)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.NoError(t, ValidateEmail("a.b+c@sub.example.org"))

	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@e.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Sup3rSecretPass"))

	assert.Error(t, ValidatePassword("Short1a"))
	assert.Error(t, ValidatePassword("alllowercase123"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE123"))
	assert.Error(t, ValidatePassword("NoDigitsAtAllHere"))
	assert.Error(t, ValidatePassword(strings.Repeat("Aa1", 50)))
}

func TestValidateGroupSlug(t *testing.T) {
	assert.NoError(t, ValidateGroupSlug("cats"))
	assert.NoError(t, ValidateGroupSlug("cat-pictures-2"))

	assert.Error(t, ValidateGroupSlug(""))
	assert.Error(t, ValidateGroupSlug("Cats"))
	assert.Error(t, ValidateGroupSlug("-cats"))
	assert.Error(t, ValidateGroupSlug("cats-"))
	assert.Error(t, ValidateGroupSlug(strings.Repeat("a", 65)))
}
