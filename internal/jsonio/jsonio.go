// Package jsonio reads and writes the JSON-shaped configuration and output
// artifacts of a batch run. Loads fail soft: a missing or malformed file is
// logged and reported through the ok flag so one bad file never crashes the
// caller.
package jsonio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Codec struct {
	logger *slog.Logger
}

func NewCodec(logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{logger: logger}
}

// Load reads a JSON mapping from path. It returns ok=false and logs on a
// missing file, malformed syntax, or any other read error; it never returns
// an error to the caller.
func (c *Codec) Load(path string) (map[string]any, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Error("jsonio.load.failed", "path", path, "error", err)
		return nil, false
	}
	var value map[string]any
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Error("jsonio.decode.failed", "path", path, "error", err)
		return nil, false
	}
	return value, true
}

// LoadRaw reads a JSON document from path without decoding it, so the file's
// own key order and value shape survive. Any valid top-level value passes, not
// just an object. Fails soft the same way Load does.
func (c *Codec) LoadRaw(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Error("jsonio.load.failed", "path", path, "error", err)
		return nil, false
	}
	if !json.Valid(data) {
		c.logger.Error("jsonio.decode.failed", "path", path, "error", "not valid JSON")
		return nil, false
	}
	return data, true
}

// SaveValue writes a structured mapping to path as human-readable JSON
// (4-space indent, non-ASCII characters kept verbatim).
func (c *Codec) SaveValue(path string, value map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(value); err != nil {
		c.logger.Error("jsonio.encode.failed", "path", path, "error", err)
		return fmt.Errorf("encode json: %w", err)
	}
	return c.write(path, bytes.TrimRight(buf.Bytes(), "\n"))
}

// SaveRaw writes a pre-formatted text blob to path verbatim.
func (c *Codec) SaveRaw(path, text string) error {
	return c.write(path, []byte(text))
}

func (c *Codec) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.logger.Error("jsonio.write.failed", "path", path, "error", err)
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.logger.Error("jsonio.write.failed", "path", path, "error", err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
