// Package assets lists the card images a user can draw from.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Category string

const (
	Cards     Category = "cards"
	GiftCards Category = "gift_cards"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

type Config struct {
	CardsDir     string `yaml:"cards_dir" validate:"required"`
	GiftCardsDir string `yaml:"gift_cards_dir" validate:"required"`
}

type Repository struct {
	dirs map[Category]string
	rand func(n int) int
}

func New(cfg *Config) *Repository {
	return &Repository{
		dirs: map[Category]string{
			Cards:     cfg.CardsDir,
			GiftCards: cfg.GiftCardsDir,
		},
		rand: rand.IntN,
	}
}

// List reads the category directory and returns image file names in lexicographic order.
// A missing directory yields an empty list.
func (r *Repository) List(category Category) ([]string, error) {
	dir, ok := r.dirs[category]
	if !ok {
		return nil, fmt.Errorf("unknown category: %s", category)
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// PickRandom returns a uniformly chosen image, or false when the category is empty.
func (r *Repository) PickRandom(category Category) (string, bool, error) {
	names, err := r.List(category)
	if err != nil || len(names) == 0 {
		return "", false, err
	}
	return names[r.rand(len(names))], true, nil
}

// Resolve builds the path of name. It does not check that the file exists.
func (r *Repository) Resolve(category Category, name string) string {
	return filepath.Join(r.dirs[category], name)
}

func (r *Repository) Exists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}
