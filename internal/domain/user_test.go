package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDisplayName(t *testing.T) {
	req := require.New(t)

	name, err := ValidateDisplayName("  Ada  ")
	req.NoError(err)
	req.Equal("Ada", name)

	_, err = ValidateDisplayName("   ")
	req.ErrorIs(err, ErrDisplayNameEmpty)

	_, err = ValidateDisplayName(strings.Repeat("x", MaxDisplayNameLen+1))
	req.ErrorIs(err, ErrDisplayNameTooLong)
}

func TestResolveDisplayName(t *testing.T) {
	req := require.New(t)

	req.Equal("User 12345678", ResolveDisplayName("1234567890abcdef", ""))
	req.Equal("User ab", ResolveDisplayName("ab", " "))
	req.Len([]rune(ResolveDisplayName("c", strings.Repeat("é", 50))), MaxDisplayNameLen)
	req.Equal("Grace", ResolveDisplayName("c", "Grace"))
}

func TestNewParticipant_DefaultEngagement(t *testing.T) {
	req := require.New(t)

	p := NewParticipant("conn-1", "", fixedNow)

	req.Equal(DefaultEngagement, p.Engagement)
	req.Equal(fixedNow, p.JoinedAt)
	req.Equal(fixedNow, p.LastActivity)
	req.Equal("User conn-1", p.Name)
}
