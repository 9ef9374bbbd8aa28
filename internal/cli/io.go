package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty or "-", it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// openInput opens path for reading; "-" reads stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// writeFile writes data to path, or to stdout when path is empty.
func writeFile(data []byte, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// basePath strips the extension from input, or from output when set.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if input == "-" {
		return "layout"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// trimSuffix strips suffix from the final path element only.
func trimSuffix(path, suffix string) string {
	dir, file := filepath.Split(path)
	return dir + strings.TrimSuffix(file, suffix)
}
