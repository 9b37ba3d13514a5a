package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/cars/":               "/cars/",
		"/cars/?page=2":        "/cars/?page=2",
		"cars/":                "/",
		"//evil.example/":      "/",
		"/\\evil.example":      "/",
		"https://evil.example": "/",
	}
	for next, want := range tests {
		assert.Equal(t, want, safeRedirect(next), next)
	}
}
