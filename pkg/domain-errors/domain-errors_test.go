package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// These are the error primitives used at every trust boundary. Unit tests
// ensure invariants like "wrapped domain errors preserve original code"
// and "errors.Is matches by code" are maintained.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "letter not found"}
		s.Equal("letter not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("database connection failed")
		err := &Error{Code: CodeInternal, Message: "service error", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeConflict, Message: "stale letter status"}
		err2 := &Error{Code: CodeConflict, Message: "number already assigned"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := &Error{Code: CodeInternal}
		s.False(err1.Is(err2))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("wraps plain error with given code", func() {
		inner := errors.New("dial tcp: connection refused")
		err := Wrap(inner, CodeUnavailable, "registry unreachable")
		s.True(HasCode(err, CodeUnavailable))
		s.True(errors.Is(err, inner))
	})

	s.Run("preserves original domain code", func() {
		inner := New(CodeValidation, "note is required")
		err := Wrap(inner, CodeInternal, "decision rejected")
		s.True(HasCode(err, CodeValidation))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("nil error has no code", func() {
		s.False(HasCode(nil, CodeNotFound))
	})

	s.Run("plain error has no code", func() {
		s.False(HasCode(errors.New("boom"), CodeInternal))
	})
}
