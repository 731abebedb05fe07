package storage_test

import (
	"testing"

	"github.com/mertcakir/rigcheck/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestPhotoKey(t *testing.T) {
	key := storage.PhotoKey("insp-1", "photo-1", "crane front.JPG")
	assert.Equal(t, "inspections/insp-1/photo-1.JPG", key)
}

func TestPhotoKeyWithoutExtension(t *testing.T) {
	key := storage.PhotoKey("insp-1", "photo-1", "upload")
	assert.Equal(t, "inspections/insp-1/photo-1", key)
}
