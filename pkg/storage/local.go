package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/farmtotable/farmtotable-backend/pkg/config"
	"github.com/google/uuid"
)

// Store writes uploaded product images to the local filesystem and hands back
// the public pathway recorded on the product row. The placeholder asset is a
// static frontend path and is never written or removed by the store.
type Store struct {
	root         string
	publicPrefix string
	placeholder  string
}

// NewStore creates the upload directory if needed and returns a store bound
// to it.
func NewStore(cfg config.UploadsConfig) (*Store, error) {
	root := cfg.Dir
	if root == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		root = filepath.Join(cwd, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", root, err)
	}
	return &Store{
		root:         root,
		publicPrefix: strings.TrimRight(cfg.PublicPrefix, "/"),
		placeholder:  cfg.PlaceholderPath,
	}, nil
}

// Root returns the absolute directory files are written to, for static serving.
func (s *Store) Root() string {
	return s.root
}

// PublicPrefix returns the URL prefix uploaded files are served under.
func (s *Store) PublicPrefix() string {
	return s.publicPrefix
}

// Placeholder returns the default pathway assigned when no image is uploaded.
func (s *Store) Placeholder() string {
	return s.placeholder
}

// IsPlaceholder reports whether the pathway is the shared placeholder asset.
func (s *Store) IsPlaceholder(pathway string) bool {
	return pathway == "" || pathway == s.placeholder || strings.Contains(pathway, "placeholder")
}

// Save streams the upload to disk under a generated unique filename and
// returns the public pathway to record on the product.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext
	full := filepath.Join(s.root, name)

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return s.publicPrefix + "/" + name, nil
}

// Remove deletes the stored file behind a pathway. Placeholder pathways and
// pathways outside the public prefix are left untouched.
func (s *Store) Remove(pathway string) error {
	if s.IsPlaceholder(pathway) {
		return nil
	}
	if !strings.HasPrefix(pathway, s.publicPrefix+"/") {
		return nil
	}
	name := path.Base(pathway)
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
