// Package filestore implements service.Store on a single local file.
// The whole collection is read and rewritten on every operation.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"taskcli/internal/logging"
	"taskcli/internal/service"
)

// Format is the serialization used for the task file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension.
// .yaml and .yml use YAML; everything else uses JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Store is a file-backed task collection.
type Store struct {
	path   string
	format Format
	logger *log.Logger
}

// New creates a Store for path. A nil logger discards log output.
func New(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		path:   path,
		format: FormatFor(path),
		logger: logger,
	}
}

// Load implements service.Store. A missing, unreadable or malformed file
// yields *service.StoreReadError. A cancelled ctx is returned as is.
func (s *Store) Load(ctx context.Context) ([]service.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debug("read task file failed", "path", s.path, "err", err)
		return nil, &service.StoreReadError{Path: s.path, Err: err}
	}

	tasks, err := decode(s.format, data)
	if err == nil {
		err = validate(tasks)
	}
	if err != nil {
		s.logger.Debug("malformed task file", "path", s.path, "err", err)
		return nil, &service.StoreReadError{Path: s.path, Err: err}
	}

	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save implements service.Store. The collection is written to a temporary
// file in the same directory and renamed over the target, so a failed save
// leaves the previous file intact. A cancelled ctx is returned as is.
func (s *Store) Save(ctx context.Context, tasks []service.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(s.format, tasks)
	if err != nil {
		return &service.StoreWriteError{Path: s.path, Err: err}
	}

	if err := writeFile(s.path, data); err != nil {
		s.logger.Debug("write task file failed", "path", s.path, "err", err)
		return &service.StoreWriteError{Path: s.path, Err: err}
	}

	s.logger.Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}

// Ensure creates an empty task file at path, including parent directories,
// when no file exists yet. An existing file is left untouched.
func Ensure(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return &service.StoreReadError{Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &service.StoreWriteError{Path: path, Err: err}
		}
	}

	data, err := encode(FormatFor(path), nil)
	if err != nil {
		return &service.StoreWriteError{Path: path, Err: err}
	}
	if err := writeFile(path, data); err != nil {
		return &service.StoreWriteError{Path: path, Err: err}
	}
	return nil
}

// writeFile replaces path with data. An existing file keeps its permissions;
// a new one is created with 0644.
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// encode serializes tasks. A nil or empty collection becomes an empty sequence.
func encode(format Format, tasks []service.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}

	switch format {
	case FormatYAML:
		if len(tasks) == 0 {
			return []byte("[]\n"), nil
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func decode(format Format, data []byte) ([]service.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty task file")
	}

	var tasks []service.Task
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &tasks)
	default:
		err = json.Unmarshal(data, &tasks)
	}
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		// "null" or an empty document
		return nil, errors.New("task file does not contain a sequence")
	}
	return tasks, nil
}

// validate rejects collections no operation could have produced.
func validate(tasks []service.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task %d: missing id", i)
		}
		if _, err := service.ParseStatus(string(t.Status)); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate task id %s", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
