package renderertest

import (
	"io/fs"

	"github.com/spaghettifunk/lve/engine/core"
)

// Loader serves shader binaries from memory.
type Loader struct {
	Files map[string][]byte
	Reads []string
}

func NewLoader(files map[string][]byte) *Loader {
	if files == nil {
		files = make(map[string][]byte)
	}
	return &Loader{Files: files}
}

func (l *Loader) Load(path string) ([]byte, error) {
	l.Reads = append(l.Reads, path)
	data, ok := l.Files[path]
	if !ok {
		return nil, &core.MissingResourceError{Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}

// SPIRV returns a small fake shader binary with a valid size.
func SPIRV() []byte {
	return []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}
}
