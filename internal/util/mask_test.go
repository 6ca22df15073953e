package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"Alice@Example.com": "a***@example.com",
		" b@x.io ":          "b***@x.io",
		"not-an-email":      "n***",
		"@example.com":      "@***",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}
