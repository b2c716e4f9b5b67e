// Package transform applies the digit-keyed additive cipher to files and
// maintains the one-line status marker that makes a round trip
// self-describing.
//
// Encrypting "report.txt" writes "encrypted_report.txt" next to it, starting
// with the line "---This file has been ENCRYPTED---". Decrypting that file
// drops the marker, writes "---This file has been DECRYPTED---" in its place
// and restores the original bytes into "decrypted_report.txt".
//
// An Engine holds only the immutable key, so concurrent Transform calls are
// safe; each call keeps its own key position, restarting at 0.
package transform

import (
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/picrypt/pkg/cipher"
	picerrors "github.com/provide-io/picrypt/pkg/errors"
	"github.com/provide-io/picrypt/pkg/keysource"
)

// OutputPerms is the mode given to newly created output files, before the
// process umask is applied. Staged and in-place output are created alike.
const OutputPerms = 0o644

const stageAttempts = 10000

// Result describes the file written by a Transform call.
type Result struct {
	OutputPath   string
	BytesWritten int64
	Checksum     string
}

// Engine transforms files with a fixed key.
type Engine struct {
	key     cipher.Key
	logger  hclog.Logger
	staging bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStaging controls whether output is written to a temporary file and
// renamed into place on success (the default). With staging off the output
// is written in place and a failed call leaves a partial file behind.
func WithStaging(enabled bool) Option {
	return func(e *Engine) {
		e.staging = enabled
	}
}

// New returns an Engine keyed by key. An empty key is rejected here so that
// Transform never has to index into it.
func New(key cipher.Key, opts ...Option) (*Engine, error) {
	if key == nil || key.Len() == 0 {
		return nil, picerrors.ErrEmptyKeySequence
	}
	e := &Engine{
		key:     key,
		logger:  hclog.NewNullLogger(),
		staging: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewFromFile loads the key source at keyPath and builds an Engine from it.
func NewFromFile(keyPath string, opts ...Option) (*Engine, error) {
	key, err := keysource.Load(keyPath)
	if err != nil {
		return nil, err
	}
	e, err := New(key, opts...)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("🔑 Key source loaded", "path", keyPath, "digits", key.Len())
	return e, nil
}

// Transform encrypts or decrypts the file at inputPath into a sibling file
// named by OutputPath. An existing output file is overwritten. The input is
// never modified, except when it already carries the output name (e.g.
// encrypting "encrypted_x"), in which case it is fully read before being
// replaced.
func (e *Engine) Transform(inputPath string, mode Mode) (Result, error) {
	var body func(io.Reader, io.Writer) (int64, error)
	switch mode {
	case Encrypt:
		body = e.EncryptStream
	case Decrypt:
		body = e.DecryptStream
	default:
		return Result{}, fmt.Errorf("%w: %v", picerrors.ErrUnknownMode, mode)
	}

	outputPath := OutputPath(inputPath, mode)
	inPlace := filepath.Base(outputPath) == filepath.Base(inputPath)
	logger := e.logger.With("mode", mode.String(), "input", inputPath, "output", outputPath)

	in, err := os.Open(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", picerrors.ErrInputUnreadable, err)
	}
	defer in.Close()

	out, err := createOutput(outputPath, e.staging || inPlace, logger)
	if err != nil {
		return Result{}, err
	}

	digest := newDigestWriter()
	n, err := body(in, io.MultiWriter(out.f, digest))
	if err != nil {
		out.discard()
		return Result{}, fmt.Errorf("%s %s: %w", mode, inputPath, err)
	}

	// Windows cannot rename over a file that is still open.
	in.Close()

	if err := out.commit(); err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", mode, inputPath, err)
	}

	logger.Info("✅ Transform complete", "bytes", n)
	return Result{
		OutputPath:   outputPath,
		BytesWritten: n,
		Checksum:     digest.String(),
	}, nil
}

// outputFile is the destination of one Transform call, either the final
// path itself or a staged temporary next to it.
type outputFile struct {
	f      *os.File
	path   string
	staged bool
	logger hclog.Logger
}

func createOutput(path string, staged bool, logger hclog.Logger) (*outputFile, error) {
	if !staged {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, OutputPerms)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", picerrors.ErrOutputUnwritable, err)
		}
		logger.Debug("💾 Writing output in place")
		return &outputFile{f: f, path: path, logger: logger}, nil
	}

	f, err := createStaged(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", picerrors.ErrOutputUnwritable, err)
	}
	logger.Debug("💾 Staging output", "staged", f.Name())
	return &outputFile{f: f, path: path, staged: true, logger: logger}, nil
}

// createStaged creates a new hidden file next to path. Unlike os.CreateTemp
// it passes OutputPerms to open, so the umask applies as it does in place.
func createStaged(path string) (*os.File, error) {
	dir, base := filepath.Split(path)
	for range stageAttempts {
		name := filepath.Join(dir, "."+base+"."+strconv.FormatUint(uint64(rand.Uint32()), 10)+".tmp")
		f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, OutputPerms)
		if os.IsExist(err) {
			continue
		}
		return f, err
	}
	return nil, &fs.PathError{Op: "stage", Path: path, Err: fs.ErrExist}
}

func (o *outputFile) commit() error {
	if err := o.f.Close(); err != nil {
		o.removeStaged()
		return fmt.Errorf("%w: %w", picerrors.ErrOutputUnwritable, err)
	}
	if !o.staged {
		return nil
	}
	if err := replaceFile(o.f.Name(), o.path, o.logger); err != nil {
		o.removeStaged()
		return fmt.Errorf("%w: %w", picerrors.ErrOutputUnwritable, err)
	}
	return nil
}

// discard closes the output after a failure. Staged output is removed;
// in-place output is left as written so far.
func (o *outputFile) discard() {
	o.f.Close()
	o.removeStaged()
}

func (o *outputFile) removeStaged() {
	if !o.staged {
		return
	}
	if err := os.Remove(o.f.Name()); err != nil && !os.IsNotExist(err) {
		o.logger.Debug("⚠️ Failed to remove staged output", "staged", o.f.Name(), "error", err)
	}
}
