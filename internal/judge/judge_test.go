package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesRegisteredLanguages(t *testing.T) {
	r := NewRegistry()

	for _, lang := range []string{"python", "javascript"} {
		backend, err := r.Get(lang)
		require.NoError(t, err)
		assert.NotNil(t, backend)
	}
}

func TestRegistryCaseInsensitive(t *testing.T) {
	r := NewRegistry()

	backend, err := r.Get("Python")
	require.NoError(t, err)
	assert.NotNil(t, backend)
}

func TestRegistryUnsupportedLanguage(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("cobol")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Contains(t, err.Error(), "cobol")
}

func TestRegistryLanguagesSorted(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"javascript", "python"}, r.Languages())
}

func TestFailureError(t *testing.T) {
	f := &Failure{Kind: TimedOut, Detail: "execution exceeded 5s"}
	assert.Equal(t, "timed_out: execution exceeded 5s", f.Error())
}
