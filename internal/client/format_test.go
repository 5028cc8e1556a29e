package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"", "9876543210", "6000000000", "7999999999", "8123456789"}
	for _, v := range valid {
		assert.True(t, ValidatePhone(v), "expected %q to be valid", v)
	}

	invalid := []string{
		"5876543210",  // leading digit below 6
		"987654321",   // too short
		"98765432100", // too long
		"98765 43210",
		"+919876543210",
		"abcdefghij",
	}
	for _, v := range invalid {
		assert.False(t, ValidatePhone(v), "expected %q to be invalid", v)
	}
}

func TestValidatePAN(t *testing.T) {
	assert.True(t, ValidatePAN(""))
	assert.True(t, ValidatePAN("ABCDE1234F"))
	assert.True(t, ValidatePAN("ZZZZZ9999Z"))

	assert.False(t, ValidatePAN("abcde1234f"), "lowercase is rejected")
	assert.False(t, ValidatePAN("ABCD1234F"))
	assert.False(t, ValidatePAN("ABCDE12345"))
	assert.False(t, ValidatePAN("ABCDE1234FA"))
}

func TestValidateGST(t *testing.T) {
	assert.True(t, ValidateGST(""))
	assert.True(t, ValidateGST("27ABCDE1234F1Z5"))
	assert.True(t, ValidateGST("09ZZZZZ9999Z9ZA"))

	assert.False(t, ValidateGST("27ABCDE1234F1Y5"), "14th character must be Z")
	assert.False(t, ValidateGST("27ABCDE1234F0Z5"), "13th character cannot be 0")
	assert.False(t, ValidateGST("7ABCDE1234F1Z5"))
	assert.False(t, ValidateGST("27abcde1234f1z5"))
}

func TestValidateRelationship(t *testing.T) {
	valid := []string{"", "SPOUSE", "CHILD", "PARENT", "SIBLING", "EMPLOYEE", "DEPENDENT", "OTHER"}
	for _, v := range valid {
		assert.True(t, ValidateRelationship(v), "expected %q to be valid", v)
	}

	invalid := []string{"COUSIN", "spouse", "FRIEND", " SPOUSE"}
	for _, v := range invalid {
		assert.False(t, ValidateRelationship(v), "expected %q to be invalid", v)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail(""))
	assert.True(t, ValidateEmail("ravi@example.com"))
	assert.True(t, ValidateEmail("a.b+c@sub.domain.in"))

	assert.False(t, ValidateEmail("ravi@example"))
	assert.False(t, ValidateEmail("ravi example@x.com"))
	assert.False(t, ValidateEmail("@example.com"))
	assert.False(t, ValidateEmail("ravi@"))
}
