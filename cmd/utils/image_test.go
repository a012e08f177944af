package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func uploadedFile(t *testing.T, name string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(MaxImageSize))
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestImageStorageSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	storage := NewImageStorage(root)

	file, header := uploadedFile(t, "small.gif", smallGIF)
	name, err := storage.Save(file, header)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "posts/"))
	assert.True(t, strings.HasSuffix(name, ".gif"))

	saved, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	assert.Equal(t, smallGIF, saved)
	assert.Equal(t, "/media/"+name, MediaURL(name))

	require.NoError(t, storage.Delete(name))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(name)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, storage.Delete(name))
}

func TestCheckImageRejects(t *testing.T) {
	file, header := uploadedFile(t, "notes.txt", []byte("hello"))
	assert.ErrorIs(t, CheckImage(file, header), ErrImageType)

	file, header = uploadedFile(t, "fake.png", []byte("plain text pretending"))
	assert.ErrorIs(t, CheckImage(file, header), ErrImageContent)

	file, header = uploadedFile(t, "big.gif", smallGIF)
	header.Size = MaxImageSize + 1
	assert.ErrorIs(t, CheckImage(file, header), ErrImageTooLarge)
}

func TestIsValidImageType(t *testing.T) {
	assert.True(t, IsValidImageType(".JPG"))
	assert.True(t, IsValidImageType(".webp"))
	assert.False(t, IsValidImageType(".exe"))
	assert.Equal(t, "", MediaURL(""))
}
