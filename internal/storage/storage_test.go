package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestNormalizeFilename(t *testing.T) {
	name := normalizeFilename("My Azan (Makkah).MP3")
	assert.Regexp(t, regexp.MustCompile(`^My_Azan_Makkah_\d{8}_\d{6}\.mp3$`), name)

	assert.Regexp(t, regexp.MustCompile(`^azan_\d{8}_\d{6}\.wav$`), normalizeFilename("!!!.wav"))
}

func TestIsAudio(t *testing.T) {
	assert.True(t, IsAudio("a.mp3"))
	assert.True(t, IsAudio("a.OGG"))
	assert.False(t, IsAudio("a.pdf"))
	assert.False(t, IsAudio("noext"))
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(dir)

	name, err := ls.SaveFile(uploadHeader(t, "azan.mp3", []byte("ID3")), "azan.mp3")
	require.NoError(t, err)

	path, err := ls.Open(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, name), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), data)

	_, err = ls.Open(context.Background(), "missing.mp3")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ls.SaveFile(uploadHeader(t, "notes.txt", []byte("x")), "notes.txt")
	assert.ErrorIs(t, err, ErrNotAudio)
}

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	gets    int
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.gets++
	data, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestSpacesStorage(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{}}
	ss := NewSpacesStorageWithClient(client, "bucket", t.TempDir())

	name, err := ss.SaveFile(uploadHeader(t, "fajr.mp3", []byte("fajr")), "fajr.mp3")
	require.NoError(t, err)
	assert.Contains(t, client.objects, "azan/"+name)

	path, err := ss.Open(context.Background(), name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("fajr"), data)

	_, err = ss.Open(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, 1, client.gets, "second open is served from the cache")

	_, err = ss.Open(context.Background(), "other.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAzanDownloadsDefault(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("default azan"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	azan := NewAzan(NewLocalStorage(dir), "azan.mp3", srv.URL, true, dir)

	path, err := azan.Path(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "azan.mp3"), path)

	_, err = azan.Path(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestAzanWithoutDefault(t *testing.T) {
	dir := t.TempDir()
	azan := NewAzan(NewLocalStorage(dir), "azan.mp3", "http://127.0.0.1:1", false, dir)

	_, err := azan.Path(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.mp3"), []byte("x"), 0o644))
	azan.Use("custom.mp3")
	assert.Equal(t, "custom.mp3", azan.Name())
	path, err := azan.Path(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom.mp3"), path)
}

func TestAzanDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := NewAzan(NewLocalStorage(dir), "azan.mp3", srv.URL, true, dir).Path(context.Background())
	assert.ErrorContains(t, err, "unexpected status 404")
}
