package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PasswordTestSuite struct {
	suite.Suite
}

func (suite *PasswordTestSuite) TestHashAndCheckRoundTrip() {
	hash, err := HashPassword("correct horse battery staple")

	suite.Require().NoError(err)
	suite.NotEqual("correct horse battery staple", hash)
	suite.True(CheckPasswordHash("correct horse battery staple", hash))
	suite.False(CheckPasswordHash("wrong password", hash))
}

func (suite *PasswordTestSuite) TestCheckRejectsMalformedHash() {
	suite.False(CheckPasswordHash("anything", "not a bcrypt hash"))
}

func TestPasswordTestSuite(t *testing.T) {
	suite.Run(t, new(PasswordTestSuite))
}
