package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Write stores each output as <dir>/<name>.<ext> and returns the paths in
// output order. Files are replaced atomically.
func Write(dir, name string, outputs []Output, sink ProgressSink) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("output name is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		start := time.Now()
		item := string(out.Dialect)
		emit(sink, item, StageWrite, StatusWorking, nil, 0)
		path := filepath.Join(dir, name+"."+out.Dialect.Ext())
		if err := writeFile(path, out.Text); err != nil {
			err = fmt.Errorf("failed to write %s: %w", path, err)
			emit(sink, item, StageWrite, StatusError, err, time.Since(start))
			return paths, err
		}
		emit(sink, item, StageWrite, StatusDone, nil, time.Since(start))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path, text string) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".declgen-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
