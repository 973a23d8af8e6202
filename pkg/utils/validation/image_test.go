package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage("house.JPG", 1024))
	assert.NoError(t, ValidateImage("house.webp", MaxImageSize))
	assert.ErrorIs(t, ValidateImage("", 1024), ErrFilename)
	assert.ErrorIs(t, ValidateImage("house.jpg", 0), ErrFileRequired)
	assert.ErrorIs(t, ValidateImage("house.jpg", MaxImageSize+1), ErrFileSize)
	assert.ErrorIs(t, ValidateImage("house.pdf", 1024), ErrFileType)
}
