package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/annotator/internal/config"
	"github.com/ivlev/annotator/internal/editor"
	"github.com/ivlev/annotator/internal/media"
	"github.com/ivlev/annotator/internal/persist"
	"github.com/ivlev/annotator/internal/shape"
	"github.com/ivlev/annotator/internal/system"
)

type cliContext struct {
	configPath string
	storePath  string
	mediaID    string
	width      int
	height     int
	dpi        int

	cfg *config.Config
}

func (c *cliContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.width > 0 {
		cfg.Width = c.width
	}
	if c.height > 0 {
		cfg.Height = c.height
	}
	if c.storePath != "" {
		cfg.StorePath = c.storePath
	}
	c.cfg = cfg
	return cfg, nil
}

func openStore(path string) (persist.Store, error) {
	if strings.HasSuffix(strings.ToLower(path), ".db") {
		return persist.OpenSQLiteStore(path)
	}
	return persist.OpenYAMLStore(path)
}

// mediaIDFor: явный id или имя входного файла без расширения.
func mediaIDFor(explicit, input string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func adapterDefaults(cfg *config.Config) (persist.Defaults, error) {
	col, err := shape.ParseColor(cfg.Color)
	if err != nil {
		return persist.Defaults{}, err
	}
	return persist.Defaults{Color: col, FontSize: cfg.FontSize, PixelSize: cfg.PixelBlockSize}, nil
}

// session opens input, the store and an editor loaded with the stored overlays.
type session struct {
	editor  *editor.Editor
	store   persist.Store
	adapter *persist.Adapter
	mediaID string
	media   media.Media
	input   string
}

// resolveInput подставляет самый свежий медиафайл, если передана папка.
func resolveInput(input string) (string, error) {
	fi, err := os.Stat(input)
	if err != nil || !fi.IsDir() {
		return input, nil
	}
	latest, err := system.FindLatestFile(input, media.Extensions()...)
	if err != nil {
		return "", fmt.Errorf("no media in %s: %w", input, err)
	}
	fmt.Printf("[*] Используем последний файл: %s\n", latest)
	return latest, nil
}

func (c *cliContext) openSession(input string) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	input, err = resolveInput(input)
	if err != nil {
		return nil, err
	}
	m, err := media.Open(input, c.dpi)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", input, err)
	}

	ed, err := editor.New(m, cfg)
	if err != nil {
		m.Close()
		return nil, err
	}
	store, err := openStore(cfg.StorePath)
	if err != nil {
		ed.Close()
		return nil, fmt.Errorf("open store %s: %w", cfg.StorePath, err)
	}
	defaults, err := adapterDefaults(cfg)
	if err != nil {
		ed.Close()
		store.Close()
		return nil, err
	}

	s := &session{
		editor:  ed,
		store:   store,
		adapter: persist.NewAdapter(store, defaults, ed.Measurer(), m.Duration()),
		mediaID: mediaIDFor(c.mediaID, input),
		media:   m,
		input:   input,
	}
	return s, nil
}

func (s *session) Close() {
	s.editor.Close()
	s.store.Close()
}
