package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash(t *testing.T) {
	hash1 := computeHash("penal code")
	hash2 := computeHash("law of bhutan")

	assert.Len(t, hash1, 64)
	assert.Len(t, hash2, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, computeHash("penal code"))
}

func TestNewMetadata(t *testing.T) {
	content := "Section 1: Theft is punishable"
	metadata := NewMetadata("penal_code", "uploads/Bhutan-Penal-Code.pdf", content)

	assert.Equal(t, "penal_code", metadata.Source)
	assert.Equal(t, "uploads/Bhutan-Penal-Code.pdf", metadata.Origin)
	assert.Equal(t, len(content), metadata.Length)
	assert.Equal(t, computeHash(content), metadata.Hash)

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}

func TestNewMetadata_CountsCharactersNotBytes(t *testing.T) {
	metadata := NewMetadata("wikipedia", "", "འབྲུག")
	assert.Equal(t, 5, metadata.Length)
}

func TestMetadata_ToJSON(t *testing.T) {
	metadata := NewMetadata("wikipedia", "https://en.wikipedia.org/wiki/Law_of_Bhutan", "content")

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, "wikipedia", decoded["source"])
	assert.Equal(t, metadata.Hash, decoded["hash"])
	assert.EqualValues(t, 7, decoded["length"])
}
