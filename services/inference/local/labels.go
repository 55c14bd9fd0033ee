package local

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ReadLabels reads a label file with one class name per line. Blank lines keep their index.
func ReadLabels(path string) (labels []string, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open label file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read label file")
	}
	return labels, nil
}

// labelFor returns the label of a class index, or the index itself when there is no such label.
func labelFor(labels []string, idx int) string {
	if idx >= 0 && idx < len(labels) && labels[idx] != "" {
		return labels[idx]
	}
	return strconv.Itoa(idx)
}
