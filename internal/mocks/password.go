package mocks

import "errors"

// MockPasswordEncoder implements service.PasswordEncoder for testing.
// By default it prefixes the plaintext with "hashed:".
type MockPasswordEncoder struct {
	EncodeFn  func(plaintext string) (string, error)
	CallCount int
}

// Encode implements the service.PasswordEncoder interface
func (m *MockPasswordEncoder) Encode(plaintext string) (string, error) {
	m.CallCount++
	if m.EncodeFn != nil {
		return m.EncodeFn(plaintext)
	}
	return "hashed:" + plaintext, nil
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return errors.New("password mismatch")
}
