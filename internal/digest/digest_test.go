package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumKnownVector(t *testing.T) {
	// SHA-256("abc"), the classic FIPS 180-2 vector.
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Sum("abc"))
}

func TestSumDeterministic(t *testing.T) {
	assert.Equal(t, Sum("alice1"), Sum("alice1"))
}

func TestSumDistinctInputs(t *testing.T) {
	assert.NotEqual(t, Sum("alice1"), Sum("alice2"))
	assert.NotEqual(t, Sum(""), Sum(" "))
}

func TestSumLowercaseHex(t *testing.T) {
	got := Sum("bob12345")
	assert.Len(t, got, 64)
	for _, r := range got {
		assert.Contains(t, "0123456789abcdef", string(r))
	}
}
