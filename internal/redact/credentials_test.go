package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialScanner_Scrub(t *testing.T) {
	if testing.Short() {
		t.Skip("building the gitleaks detector is slow")
	}

	s := NewCredentialScanner()

	t.Run("github token", func(t *testing.T) {
		token := "ghp_" + "abcdefghijklmnopqrstuvwxyz0123456789"
		out, err := s.Scrub("token=" + token + " end")
		require.NoError(t, err)
		assert.NotContains(t, out, token)
	})

	t.Run("plain text untouched", func(t *testing.T) {
		in := "Your Afterpay payment 2 of 4 is due soon."
		out, err := s.Scrub(in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})
}
