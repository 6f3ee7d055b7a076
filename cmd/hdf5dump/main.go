// Command hdf5dump prints the object hierarchy, shapes, and attributes
// of an HDF5 file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/marrow-data/hdf5decode/hdf5"
	"github.com/marrow-data/hdf5decode/reader"
)

func main() {
	forceWindowed := pflag.Bool("window", false, "force sliding-window reader mode")
	showAttrs := pflag.Bool("attrs", true, "print attribute values")
	pflag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: hdf5dump [flags] <file.h5>")
		os.Exit(2)
	}

	if err := run(logger, args[0], *forceWindowed, *showAttrs); err != nil {
		logger.Error("dump failed", zap.String("file", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, path string, forceWindowed, showAttrs bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	src := &fileSource{f: f, size: info.Size()}

	var opts []hdf5.OpenOption
	if forceWindowed {
		opts = append(opts, hdf5.WithWindowed())
	}

	file, err := hdf5.Open(src, opts...)
	if err != nil {
		return err
	}
	if file == nil {
		fmt.Println("not an HDF5 file")
		return nil
	}

	logger.Info("opened file", zap.String("file", path), zap.Int("superblock-version", file.Version()))

	return file.Root().Walk(func(nodePath string, group *hdf5.Group, variable *hdf5.Variable) error {
		if variable != nil {
			fmt.Printf("dataset %s  type=%v shape=%v\n", displayPath(nodePath), variable.Type(), variable.Shape())
		} else {
			fmt.Printf("group   %s\n", displayPath(nodePath))
		}
		if showAttrs {
			printAttrs(group)
		}
		return nil
	})
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func printAttrs(g *hdf5.Group) {
	attrs, err := g.Attributes()
	if err != nil || len(attrs) == 0 {
		return
	}
	for name, attr := range attrs {
		val, err := attr.Value()
		if err != nil {
			fmt.Printf("    @%s: <error: %v>\n", name, err)
			continue
		}
		fmt.Printf("    @%s = %v\n", name, val)
	}
}

// fileSource adapts an *os.File to reader.Source.
type fileSource struct {
	f    *os.File
	size int64
}

func (s *fileSource) Len() int64 { return s.size }

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

var _ reader.Source = (*fileSource)(nil)
