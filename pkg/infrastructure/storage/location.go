package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	shared "github.com/kevinnayar/mmftostrava/pkg"
)

// ErrNoBlobStore is returned when a gs:// location is used without a configured BlobStore.
var ErrNoBlobStore = errors.New("storage: gs:// location requires a blob store")

var gcsURIPattern = regexp.MustCompile(`^gs://([^/]+)/(.+)$`)

// Location is either a local file path or a GCS object.
type Location struct {
	Bucket string
	Object string
	Path   string
}

// ParseLocation accepts gs://bucket/object or a local path.
func ParseLocation(raw string) (Location, error) {
	if strings.HasPrefix(raw, "gs://") {
		m := gcsURIPattern.FindStringSubmatch(raw)
		if m == nil {
			return Location{}, fmt.Errorf("invalid GCS URI: %q", raw)
		}
		return Location{Bucket: m[1], Object: m[2]}, nil
	}
	if raw == "" {
		return Location{}, errors.New("empty location")
	}
	return Location{Path: raw}, nil
}

func (l Location) IsRemote() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsRemote() {
		return "gs://" + l.Bucket + "/" + l.Object
	}
	return l.Path
}

// Files reads and writes whole files at local or gs:// locations.
type Files struct {
	// Blob serves gs:// locations. May be nil when only local paths are used.
	Blob shared.BlobStore
}

func (f *Files) Read(ctx context.Context, raw string) ([]byte, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}
	if loc.IsRemote() {
		if f.Blob == nil {
			return nil, ErrNoBlobStore
		}
		return f.Blob.Read(ctx, loc.Bucket, loc.Object)
	}
	return os.ReadFile(loc.Path)
}

func (f *Files) Write(ctx context.Context, raw string, data []byte) error {
	loc, err := ParseLocation(raw)
	if err != nil {
		return err
	}
	if loc.IsRemote() {
		if f.Blob == nil {
			return ErrNoBlobStore
		}
		return f.Blob.Write(ctx, loc.Bucket, loc.Object, data)
	}
	if dir := filepath.Dir(loc.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(loc.Path, data, 0o644)
}

// AnyRemote reports whether any of the given locations is a gs:// URI.
func AnyRemote(locations ...string) bool {
	for _, l := range locations {
		if strings.HasPrefix(l, "gs://") {
			return true
		}
	}
	return false
}

func contentTypeFor(object string) string {
	switch strings.ToLower(filepath.Ext(object)) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
