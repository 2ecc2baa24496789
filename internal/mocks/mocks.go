// Package mocks holds testify mocks of the service interfaces for handler
// and middleware tests.
package mocks
