package exports

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/client"
	"github.com/dmitrijs2005/dropanalyzer/internal/filex"
	"github.com/google/uuid"
)

const DefaultDir = "exports"

// FileSink saves exports as reports-<timestamp>-<id>.<ext> under Dir. The
// random id keeps exports made within the same second apart.
type FileSink struct {
	Dir   string
	now   func() time.Time
	newID func() string
}

func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = DefaultDir
	}
	return &FileSink{Dir: dir, now: time.Now, newID: shortID}
}

func (s *FileSink) Write(_ context.Context, format string, blob *client.Blob) (string, error) {
	dir, err := filex.EnsureDir(s.Dir)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("reports-%s-%s%s", s.now().UTC().Format("20060102-150405"), s.newID(), extension(format))
	path := filepath.Join(dir, name)

	if err := filex.WriteFileAtomic(path, blob.Data, 0o640); err != nil {
		return "", err
	}
	return path, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}
