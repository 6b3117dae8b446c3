package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goccy/go-json"
)

const fileVersion = 1

// fileImage is the on-disk layout of a file catalog.
type fileImage struct {
	Version     int          `json:"version"`
	Descriptors []Descriptor `json:"descriptors"`
}

// Compile-time check to ensure File satisfies the Catalog interface.
var _ Catalog = (*File)(nil)

// File is a Catalog stored as a single JSON file.
//
// Writes go through a temp file and an atomic rename, so a crashed writer
// never leaves a truncated catalog behind.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file catalog at path. The file is created on the first
// Put.
func NewFile(path string) *File {
	return &File{path: path}
}

// Get returns the descriptor registered under name.
func (c *File) Get(_ context.Context, name string) (Descriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	descriptors, err := c.load()
	if err != nil {
		return Descriptor{}, err
	}

	d, ok := descriptors[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return d, nil
}

// Put registers a descriptor under its name.
func (c *File) Put(_ context.Context, d Descriptor) error {
	if d.Name == "" {
		return errors.New("catalog: descriptor name must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	descriptors, err := c.load()
	if err != nil {
		return err
	}

	if _, ok := descriptors[d.Name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, d.Name)
	}

	descriptors[d.Name] = d

	return c.save(descriptors)
}

// List returns the registered names in ascending order.
func (c *File) List(_ context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	descriptors, err := c.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

func (c *File) load() (map[string]Descriptor, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Descriptor{}, nil
		}
		return nil, err
	}

	var img fileImage
	if err := json.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", c.path, err)
	}

	if img.Version != fileVersion {
		return nil, fmt.Errorf("catalog: unsupported catalog version: %d (expected %d)", img.Version, fileVersion)
	}

	descriptors := make(map[string]Descriptor, len(img.Descriptors))
	for _, d := range img.Descriptors {
		descriptors[d.Name] = d
	}

	return descriptors, nil
}

func (c *File) save(descriptors map[string]Descriptor) error {
	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Strings(names)

	img := fileImage{
		Version:     fileVersion,
		Descriptors: make([]Descriptor, 0, len(descriptors)),
	}
	for _, name := range names {
		img.Descriptors = append(img.Descriptors, descriptors[name])
	}

	data, err := json.MarshalIndent(img, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := c.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// Rename over the catalog file
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// Sync directory to persist rename
	return syncDir(filepath.Dir(c.path))
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Sync()
}
