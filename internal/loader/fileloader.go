package loader

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"

	"jpamb/internal/jvm"
)

// FileLoader is the real, if minimal, stand-in for spec §1's external
// bytecode loader: one JSON file per method, named by a filesystem-
// safe slug of the method-id, under Dir.
type FileLoader struct {
	Dir string
}

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

var unsafeMethodChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// slug turns a method-id into a name safe to use as a single path
// component, replacing every character outside a small safe set with
// an underscore. Not required to be reversible: FileLoader only ever
// needs to go from method-id to file, never back.
func slug(method jvm.MethodID) string {
	return unsafeMethodChars.ReplaceAllString(method.Key(), "_") + ".json"
}

func (l *FileLoader) Opcodes(method jvm.MethodID) ([]jvm.Opcode, error) {
	path := filepath.Join(l.Dir, slug(method))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: reading %s", path)
	}
	ops, err := decodeOpcodes(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: decoding %s", path)
	}
	return ops, nil
}
