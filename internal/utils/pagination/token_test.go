package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(entryDate, 1234)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, entryDate, decodedDate, "Entry date should match after decode")
	assert.Equal(t, int64(1234), decodedID, "ID should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// Test invalid format (missing separator)
	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2023-05-15")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// Test invalid date format
	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("notadate|12")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")

	// Test invalid id
	_, _, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2023-05-15|abc")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "id parse")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 20, ClampLimit(20))
	assert.Equal(t, MaxLimit, ClampLimit(MaxLimit+1))
}
