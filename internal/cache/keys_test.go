package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterDiscriminator(t *testing.T) {
	require.Equal(t, DiscriminatorAll, FilterDiscriminator(""))
	require.Equal(t, DiscriminatorAll, FilterDiscriminator("   "))
	require.Equal(t, Discriminator("filter:alice"), FilterDiscriminator("Alice"))
	require.Equal(t, Discriminator("filter:bob martin"), FilterDiscriminator("  Bob Martin "))
}

func TestNamespaceKeyConstruction(t *testing.T) {
	require.Equal(t, "students:all", NamespaceStudents.Key(DiscriminatorAll))
	require.Equal(t, "students:filter:zoe", NamespaceStudents.Key(FilterDiscriminator("Zoe")))
	require.Equal(t, "students:", NamespaceStudents.Prefix())
}
