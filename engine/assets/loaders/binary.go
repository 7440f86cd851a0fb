package loaders

import (
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/lve/engine/core"
)

// First word of every SPIR-V module.
const spirvMagic uint32 = 0x07230203

// BinaryLoader reads files as opaque bytes, relative to BasePath when the
// path is not absolute.
type BinaryLoader struct {
	BasePath string
}

func (bl *BinaryLoader) resolve(path string) string {
	if bl.BasePath == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(bl.BasePath, path)
}

// Load returns the whole file. Any failure to open or read it is reported
// as a *core.MissingResourceError.
func (bl *BinaryLoader) Load(path string) ([]byte, error) {
	full := bl.resolve(path)
	f, err := os.Open(full)
	if err != nil {
		return nil, missing(full, err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, missing(full, err)
	}
	if len(buf) == 0 {
		return nil, missing(full, errors.New("file is empty"))
	}

	if filepath.Ext(full) == ".spv" && !isSPIRV(buf) {
		core.LogWarn("%s does not start with the SPIR-V magic number", full)
	}
	core.LogDebug("loaded %s (%d bytes)", full, len(buf))
	return buf, nil
}

func missing(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		core.LogError("failed to open file: %s", path)
	} else {
		core.LogError("failed to read file %s: %s", path, err)
	}
	return &core.MissingResourceError{Path: path, Err: err}
}

func isSPIRV(b []byte) bool {
	return len(b) >= 4 && len(b)%4 == 0 && binary.LittleEndian.Uint32(b) == spirvMagic
}
