package pipeline

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/matzehuels/junction/pkg/errors"
	"github.com/matzehuels/junction/pkg/junction"
)

// LoadFile reads points from the file at path.
func LoadFile(path string) (*junction.Input, error) {
	f, err := os.Open(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return junction.Read(f)
}
