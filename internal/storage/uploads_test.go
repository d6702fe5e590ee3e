package storage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kalpesh-Product/wono-ticketing/internal/config"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("issue", name)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, header, err := req.FormFile("issue")
	require.NoError(t, err)
	return header
}

func TestSaveAndOpen(t *testing.T) {
	store, err := NewUploadStore(config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1 << 20})
	require.NoError(t, err)

	key, err := store.Save(fileHeader(t, "screenshot.png", "fake png bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(key, "_screenshot.png"))

	reader, err := store.Open(key)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "fake png bytes", string(data))
}

func TestSaveRejectsOversized(t *testing.T) {
	store, err := NewUploadStore(config.UploadConfig{Dir: t.TempDir(), MaxBytes: 4})
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "big.bin", "way more than four bytes"))
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestSaveSanitizesFileName(t *testing.T) {
	store, err := NewUploadStore(config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1 << 20})
	require.NoError(t, err)

	key, err := store.Save(fileHeader(t, "../../etc/passwd", "x"))
	require.NoError(t, err)
	require.NotContains(t, key, "..")
	require.NotContains(t, key, "/")
}

func TestOpenUnknownKey(t *testing.T) {
	store, err := NewUploadStore(config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1 << 20})
	require.NoError(t, err)

	_, err = store.Open("missing-key")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
