package actors

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Open returns the flat file db of mind. ok is false if it has never been written.
func Open(mind, db string) (f *os.File, ok bool, err error) {
	if err := os.MkdirAll(directory(mind), 0755); err != nil {
		return nil, false, fmt.Errorf("open %s/%s: %w", mind, db, err)
	}
	f, err = os.Open(filename(mind, db))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open %s/%s: %w", mind, db, err)
	}
	return f, true, nil
}

// Write replaces the flat file db of mind with b. The new content is written
// to a temporary file first so a failed write leaves the old file in place.
func Write(mind, db string, b []byte) error {
	if err := os.MkdirAll(directory(mind), 0755); err != nil {
		return fmt.Errorf("write %s/%s: %w", mind, db, err)
	}
	tmp, err := os.CreateTemp(directory(mind), db+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", mind, db, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s/%s: %w", mind, db, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s/%s: %w", mind, db, err)
	}
	if err := os.Rename(tmp.Name(), filename(mind, db)); err != nil {
		return fmt.Errorf("write %s/%s: %w", mind, db, err)
	}
	return nil
}

func filename(mind, db string) string {
	return filepath.Join(directory(mind), db+".dat")
}

func directory(mind string) string {
	c := MakeOrGetConfig()
	return filepath.Join(c.GetString("rootDir"), c.GetString("flatFileDir"), mind)
}
