// Package mocks provides centralized mock implementations for testing.
//
// Store mocks are built on testify/mock and are configured with On/Return:
//
//	users := new(mocks.UserStore)
//	users.On("GetByID", mock.Anything, id).Return(user, nil)
//
// Their WithTx methods return the receiver, so expectations set on the mock
// also apply inside a unit of work. TxRunner runs the unit directly with a
// nil transaction.
//
// The password and token mocks use function fields instead, matching how
// handlers exercise them.
package mocks
