// Package storage keeps azan recordings on local disk or in DigitalOcean Spaces.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound   = errors.New("azan file not found")
	ErrNotAudio   = errors.New("unsupported audio format")
	filenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

const keyPrefix = "azan/"

type Storage interface {
	// SaveFile stores an uploaded recording and returns the name to Open it by.
	SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error)
	// Open returns a local path for the named recording.
	Open(ctx context.Context, name string) (string, error)
}

type LocalStorage struct {
	dir string
}

type SpacesStorage struct {
	client   s3iface.S3API
	bucket   string
	cacheDir string
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

func NewSpacesStorage(endpoint, region, bucket, accessKey, secretKey, cacheDir string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return NewSpacesStorageWithClient(s3.New(sess), bucket, cacheDir), nil
}

func NewSpacesStorageWithClient(client s3iface.S3API, bucket, cacheDir string) *SpacesStorage {
	return &SpacesStorage{client: client, bucket: bucket, cacheDir: cacheDir}
}

// normalizeFilename creates a unique, normalized filename without spaces
func normalizeFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	baseName := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))

	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = filenameChars.ReplaceAllString(baseName, "")
	if baseName == "" {
		baseName = "azan"
	}

	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s%s", baseName, timestamp, ext)
}

// IsAudio reports whether filename has an extension a player can handle.
func IsAudio(filename string) bool {
	return strings.HasPrefix(getContentType(filename), "audio/")
}

func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error) {
	if !IsAudio(filename) {
		return "", fmt.Errorf("%w: %s", ErrNotAudio, filename)
	}
	normalizedFilename := normalizeFilename(filename)
	log.Debug().Str("original", filename).Str("normalized", normalizedFilename).Msg("azan upload normalized")

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := writeFile(filepath.Join(ls.dir, normalizedFilename), src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return normalizedFilename, nil
}

func (ls *LocalStorage) Open(_ context.Context, name string) (string, error) {
	path := filepath.Join(ls.dir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", err
	}
	return path, nil
}

func (ss *SpacesStorage) SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error) {
	if !IsAudio(filename) {
		return "", fmt.Errorf("%w: %s", ErrNotAudio, filename)
	}
	normalizedFilename := normalizeFilename(filename)
	log.Debug().Str("original", filename).Str("normalized", normalizedFilename).Msg("azan upload normalized")

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	_, err = ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(keyPrefix + normalizedFilename),
		Body:        src,
		ContentType: aws.String(getContentType(normalizedFilename)),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to upload azan to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}
	return normalizedFilename, nil
}

// Open downloads the object once and serves later calls from cacheDir.
func (ss *SpacesStorage) Open(ctx context.Context, name string) (string, error) {
	name = filepath.Base(name)
	path := filepath.Join(ss.cacheDir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	out, err := ss.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(keyPrefix + name),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return "", fmt.Errorf("%w: %s%s", ErrNotFound, keyPrefix, name)
		}
		return "", fmt.Errorf("failed to download from Spaces: %w", err)
	}
	defer out.Body.Close()

	if err := writeFile(path, out.Body); err != nil {
		return "", err
	}
	log.Info().Str("key", keyPrefix+name).Str("path", path).Msg("azan cached from Spaces")
	return path, nil
}

// writeFile copies r into path through a temp file so readers never see a
// partial recording.
func writeFile(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".azan-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func getContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".m4a", ".aac":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
