package channeler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Make sure the end of the command is as expected.
func TestTerminated(t *testing.T) {
	testCases := map[string]struct {
		line     string
		expected string
	}{
		// FWIW: empty lines still get a newline.
		"empty": {
			line:     "",
			expected: "\n",
		},
		"bare": {
			line:     "hello",
			expected: "hello\n",
		},
		"alreadyTerminated": {
			line:     "hello\n",
			expected: "hello\n",
		},
		"multiLine": {
			line:     "hello\nworld",
			expected: "hello\nworld\n",
		},
	}
	for n, tc := range testCases {
		t.Run(n, func(t *testing.T) {
			assert.Equal(t, tc.expected, terminated(tc.line))
		})
	}
}
