package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/weft/internal/errors"
)

// Store persists snapshot documents.
type Store interface {
	// Put writes doc under name and returns its location.
	Put(ctx context.Context, name string, doc *Document) (string, error)

	// Get reads the document stored under name.
	Get(ctx context.Context, name string) (*Document, error)
}

// S3Options configures the S3 client created by Open.
type S3Options struct {
	Region   string
	Endpoint string
}

// Open returns the store for target: an s3://bucket/prefix URL or a
// directory path.
func Open(target string, opts S3Options) (Store, error) {
	if strings.HasPrefix(target, "s3://") {
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(target, "s3://"), "/")
		if bucket == "" {
			return nil, errors.New("W122").WithDetail("target " + target + " has no bucket")
		}
		return NewS3Store(NewS3Client(opts), bucket, prefix), nil
	}
	if target == "" {
		return nil, errors.New("W122").WithDetail("empty target")
	}
	fs, err := NewFileStore(target)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// FileStore stores documents as JSON files in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("W140").Wrap(err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Put implements Store.
func (s *FileStore) Put(_ context.Context, name string, doc *Document) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.New("W140").Wrap(err)
	}
	path := filepath.Join(s.dir, name+".json")

	// Write to a temp file first so readers never see a partial document.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return "", errors.New("W140").Wrap(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", errors.New("W140").Wrap(err)
	}
	return path, nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, name string) (*Document, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validName rejects names that would escape the store.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.New("W140").WithDetail("invalid snapshot name " + name)
	}
	return nil
}
