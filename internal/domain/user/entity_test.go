package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type UserTestSuite struct {
	suite.Suite
	profile Profile
}

func (s *UserTestSuite) SetupTest() {
	s.profile = Profile{
		Username:  "nonna",
		FirstName: "Maria",
		LastName:  "Rossi",
		Country:   "Italy",
		Email:     "maria@example.com",
	}
}

func (s *UserTestSuite) TestNewUser() {
	s.Run("ValidInput_ShouldHashPassword", func() {
		// Act
		u, err := NewUser(s.profile, "secret-sauce", bcrypt.MinCost)

		// Assert
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "nonna", u.Username())
		assert.NotEqual(s.T(), "secret-sauce", u.PasswordHash())
		assert.NoError(s.T(), u.CheckPassword("secret-sauce"))
		assert.Error(s.T(), u.CheckPassword("wrong"))
		assert.Zero(s.T(), u.ID())
		assert.False(s.T(), u.CreatedAt().IsZero())
	})

	s.Run("BlankUsername_ShouldReturnError", func() {
		profile := s.profile
		profile.Username = "   "

		u, err := NewUser(profile, "secret", bcrypt.MinCost)

		assert.ErrorIs(s.T(), err, ErrUsernameRequired)
		assert.Nil(s.T(), u)
	})

	s.Run("EmptyPassword_ShouldReturnError", func() {
		_, err := NewUser(s.profile, "", bcrypt.MinCost)

		assert.ErrorIs(s.T(), err, ErrPasswordRequired)
	})

	s.Run("PasswordOverBcryptLimit_ShouldReturnError", func() {
		_, err := NewUser(s.profile, strings.Repeat("a", 73), bcrypt.MinCost)

		assert.ErrorIs(s.T(), err, ErrPasswordTooLong)
	})
}

func (s *UserTestSuite) TestAssignID() {
	u, err := NewUser(s.profile, "secret", bcrypt.MinCost)
	require.NoError(s.T(), err)

	u.AssignID(17)

	assert.Equal(s.T(), int64(17), u.ID())
}

func TestUserTestSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}
