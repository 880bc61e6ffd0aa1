package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type overlayFile struct {
	MediaID  string   `yaml:"media_id"`
	Overlays []Record `yaml:"overlays"`
}

// YAMLStore хранит по одному YAML файлу на media id в папке.
type YAMLStore struct {
	mu  sync.Mutex
	dir string
}

func OpenYAMLStore(dir string) (*YAMLStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &YAMLStore{dir: dir}, nil
}

func (s *YAMLStore) path(mediaID string) (string, error) {
	if mediaID == "" || strings.ContainsAny(mediaID, `/\`) || mediaID == "." || mediaID == ".." {
		return "", fmt.Errorf("invalid media id %q", mediaID)
	}
	return filepath.Join(s.dir, mediaID+".yaml"), nil
}

func (s *YAMLStore) read(path string) (*overlayFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var f overlayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

func (s *YAMLStore) LoadOverlays(ctx context.Context, mediaID string) ([]Record, error) {
	path, err := s.path(mediaID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read(path)
	if err != nil {
		return nil, err
	}
	return f.Overlays, nil
}

func (s *YAMLStore) SaveOverlays(ctx context.Context, mediaID string, recs []Record) ([]string, error) {
	path, err := s.path(mediaID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read(path)
	if errors.Is(err, ErrNotFound) {
		f, err = &overlayFile{MediaID: mediaID}, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = uuid.NewString()
		rec.ID = ids[i]
		f.Overlays = append(f.Overlays, rec)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, err
	}
	// Через временный файл, чтобы не оставить полузаписанный документ.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *YAMLStore) MediaIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *YAMLStore) Close() error { return nil }
