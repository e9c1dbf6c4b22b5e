package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"010-9999-8888":   "01099998888",
		"010 9999 8888":   "01099998888",
		"(02) 123-4567":   "021234567",
		"+82 10 1234 5678": "821012345678",
		"01099998888":     "01099998888",
		"abc":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), "input %q", in)
	}
}

func TestPhoneLast4(t *testing.T) {
	assert.Equal(t, "8888", PhoneLast4("01099998888"))
	assert.Equal(t, "5678", PhoneLast4("5678"))
	assert.Equal(t, "123", PhoneLast4("123"))
}

func TestValidPhoneBounds(t *testing.T) {
	assert.False(t, validPhone("1234567"))          // 7 digits, too short
	assert.True(t, validPhone("12345678"))          // 8 digits, minimum
	assert.True(t, validPhone("01099998888"))       // common mobile
	assert.True(t, validPhone("123456789012345"))   // 15 digits, maximum
	assert.False(t, validPhone("1234567890123456")) // 16 digits, too long
}
