package io

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/matzehuels/neuroc/pkg/errors"
	"github.com/matzehuels/neuroc/pkg/morph"
)

// Load downloads and decodes the morphology at location. Location may be a
// local path or any URL the afs service understands.
func Load(ctx context.Context, fs afs.Service, location string) (*morph.Morphology, error) {
	data, err := Download(ctx, fs, location)
	if err != nil {
		return nil, err
	}
	m, err := Decode(location, data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", location, err)
	}
	return m, nil
}

// Download returns the raw bytes at location, mapping a missing file to
// FILE_NOT_FOUND.
func Download(ctx context.Context, fs afs.Service, location string) ([]byte, error) {
	ok, err := fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", location, err)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeFileNotFound, "%s does not exist", location)
	}
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", location, err)
	}
	return data, nil
}

// Save encodes m according to the extension of location and uploads it.
func Save(ctx context.Context, fs afs.Service, location string, m *morph.Morphology) error {
	data, err := Encode(location, m)
	if err != nil {
		return err
	}
	return Upload(ctx, fs, location, data)
}

// Upload writes data to location with the default file mode.
func Upload(ctx context.Context, fs afs.Service, location string, data []byte) error {
	if err := fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upload %s: %w", location, err)
	}
	return nil
}

// EnsureDir creates dir if it does not exist yet.
func EnsureDir(ctx context.Context, fs afs.Service, dir string) error {
	ok, err := fs.Exists(ctx, dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if ok {
		return nil
	}
	if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// ListMorphologies returns the URLs of the morphology files directly inside
// dir, sorted by name. Subdirectories are not descended into.
func ListMorphologies(ctx context.Context, fs afs.Service, dir string) ([]string, error) {
	return ListFiles(ctx, fs, dir, IsMorphologyFile)
}

// ListFiles returns the URLs of the regular files directly inside dir whose
// name satisfies match, sorted.
func ListFiles(ctx context.Context, fs afs.Service, dir string, match func(name string) bool) ([]string, error) {
	objects, err := list(ctx, fs, dir)
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, obj := range objects {
		if obj.IsDir() || !match(obj.Name()) {
			continue
		}
		urls = append(urls, url.Join(dir, obj.Name()))
	}
	slices.Sort(urls)
	return urls, nil
}

// ListDirs returns the names of the immediate subdirectories of dir, sorted.
func ListDirs(ctx context.Context, fs afs.Service, dir string) ([]string, error) {
	objects, err := list(ctx, fs, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, obj := range objects {
		if obj.IsDir() {
			names = append(names, obj.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// ListNames returns the names of every entry directly inside dir, files and
// directories alike, sorted.
func ListNames(ctx context.Context, fs afs.Service, dir string) ([]string, error) {
	objects, err := list(ctx, fs, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(objects))
	for i, obj := range objects {
		names[i] = obj.Name()
	}
	slices.Sort(names)
	return names, nil
}

// list returns the entries of dir without dir itself, which afs reports first.
func list(ctx context.Context, fs afs.Service, dir string) ([]storage.Object, error) {
	objects, err := fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(objects) > 0 && objects[0].IsDir() && objects[0].Name() == path.Base(strings.TrimRight(dir, "/")) {
		objects = objects[1:]
	}
	return objects, nil
}
