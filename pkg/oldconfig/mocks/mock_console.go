// Package mocks provides testify-based mock implementations for testing
// prompts without a terminal.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// LineReader is a mock for oldconfig.LineReader.
type LineReader struct {
	mock.Mock
}

func (m *LineReader) ReadLine(prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

// Selector is a mock for oldconfig.Selector.
type Selector struct {
	mock.Mock
}

func (m *Selector) Select(message string, options []string, current int) (int, error) {
	args := m.Called(message, options, current)
	return args.Int(0), args.Error(1)
}
