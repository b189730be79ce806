package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).png", "my_photo__1_.png"},
		{"", "file"},
		{"weird:<>name.gif", "weird___name.gif"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestGenerateRandomStringLength(t *testing.T) {
	s := GenerateRandomString(10)
	assert.Len(t, s, 10)
	assert.NotEqual(t, s, GenerateRandomString(10))
}

func TestParseQueryOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=3&limit=5&keyword=phone", nil)
	opts := ParseQueryOptions(r)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, "phone", opts.Keyword)
}

func TestParseQueryOptionsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=-1&limit=abc", nil)
	opts := ParseQueryOptions(r)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Empty(t, opts.Keyword)
}
