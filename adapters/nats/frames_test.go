package nats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubjectFor(t *testing.T) {
	require.Equal(t, "mgmt.node.h1.9999", subjectFor("", "h1", "9999"))
	require.Equal(t, "test.node.h1.9999", subjectFor("test", "h1", "9999"))

	// dots in the host must not split subject tokens
	require.Equal(t, "mgmt.node.10_0_0_1.9999", subjectFor("", "10.0.0.1", "9999"))
}
