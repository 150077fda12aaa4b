package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUser_Greet(t *testing.T) {
	tests := map[string]struct {
		user User
		want string
	}{
		"first name only":    {User{FirstName: "Ada"}, "Ada"},
		"first and last":     {User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		"username as backup": {User{FirstName: " ", Username: "ada"}, "@ada"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.user.Greet())
		})
	}
}

func TestUser_IsAdmin(t *testing.T) {
	yes, no := true, false
	require.False(t, (&User{}).IsAdmin())
	require.False(t, (&User{Admin: &no}).IsAdmin())
	require.True(t, (&User{Admin: &yes}).IsAdmin())
}
