// Package storage holds the image blob store behind the attachment
// lifecycle. The service layer only sees BlobStore; LocalStore is the
// on-disk implementation serving files under a public URL prefix.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type BlobStore interface {
	Exists(ref string) bool
	Put(ref string, data []byte) error
	// Delete is best-effort and reports whether a blob was removed.
	Delete(ref string) bool
	// Resize fits the blob into a width x height box in place. Best-effort:
	// callers must not fail their operation on a resize error.
	Resize(ref string, width, height, quality int) error
}

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) path(ref string) string {
	return filepath.Join(s.root, filepath.FromSlash(ref))
}

func (s *LocalStore) Exists(ref string) bool {
	if ref == "" {
		return false
	}
	_, err := os.Stat(s.path(ref))
	return err == nil
}

func (s *LocalStore) Put(ref string, data []byte) error {
	p := s.path(ref)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

// Delete tries the stored ref plus the path-convention variants that showed
// up over the upload history (leading slash, with and without a "public/"
// prefix), so stale refs from older conventions still get cleaned up.
func (s *LocalStore) Delete(ref string) bool {
	if ref == "" {
		return false
	}
	for _, candidate := range refVariants(ref) {
		p := s.path(candidate)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := os.Remove(p); err != nil {
			slog.Warn("blob delete failed", "ref", candidate, "error", err)
			continue
		}
		return true
	}
	slog.Warn("blob not found under any path variant", "ref", ref)
	return false
}

func refVariants(ref string) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	add(ref)
	add(strings.TrimPrefix(ref, "/"))
	add(strings.TrimPrefix(strings.TrimPrefix(ref, "/"), "public/"))
	add("public/" + strings.TrimPrefix(ref, "/"))
	return out
}
