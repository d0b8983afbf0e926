// Package mocks holds testify mocks for the ports interfaces. Each
// constructor registers AssertExpectations as a test cleanup.
package mocks
