package transform

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	picerrors "github.com/provide-io/picrypt/pkg/errors"
	"github.com/provide-io/picrypt/pkg/keysource"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestNew_RejectsEmptyKey(t *testing.T) {
	_, err := New(keysource.KeySequence{})
	assert.ErrorIs(t, err, picerrors.ErrEmptyKeySequence)

	_, err = New(nil)
	assert.ErrorIs(t, err, picerrors.ErrEmptyKeySequence)
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFromFile(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, picerrors.ErrKeySourceUnreadable)

	_, err = NewFromFile(writeFile(t, dir, "blank.txt", []byte("no digits\n")))
	assert.ErrorIs(t, err, picerrors.ErrEmptyKeySequence)

	e, err := NewFromFile(writeFile(t, dir, "pi.txt", []byte("3.14159\n")))
	require.NoError(t, err)
	assert.Equal(t, 6, e.key.Len())
}

func TestTransform_RoundTripFiles(t *testing.T) {
	for _, staging := range []bool{true, false} {
		t.Run(fmt.Sprintf("staging=%v", staging), func(t *testing.T) {
			dir := t.TempDir()
			e := testEngine(t, WithStaging(staging))
			plain := []byte("Knock, draw, release.\nAgain.\n")
			input := writeFile(t, dir, "report.txt", plain)

			enc, err := e.Transform(input, Encrypt)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "encrypted_report.txt"), enc.OutputPath)

			encData, err := os.ReadFile(enc.OutputPath)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(encData, []byte(EncryptedMarker+"\n")))
			assert.Equal(t, int64(len(encData)), enc.BytesWritten)
			assert.Equal(t, Checksum(encData), enc.Checksum)

			dec, err := e.Transform(enc.OutputPath, Decrypt)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "decrypted_report.txt"), dec.OutputPath)

			decData, err := os.ReadFile(dec.OutputPath)
			require.NoError(t, err)
			assert.Equal(t, DecryptedMarker+"\n"+string(plain), string(decData))

			again, err := os.ReadFile(input)
			require.NoError(t, err)
			assert.Equal(t, plain, again, "input must not be modified")

			assert.ElementsMatch(t,
				[]string{"report.txt", "encrypted_report.txt", "decrypted_report.txt"},
				dirNames(t, dir))
		})
	}
}

func TestTransform_ReencryptDecryptedFile(t *testing.T) {
	dir := t.TempDir()
	e := testEngine(t)
	input := writeFile(t, dir, "decrypted_report.txt", []byte(DecryptedMarker+"\nbody\n"))

	res, err := e.Transform(input, Encrypt)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "encrypted_report.txt"), res.OutputPath)

	status, err := DetectFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, Encrypted, status)
}

func TestTransform_OverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	e := testEngine(t)
	input := writeFile(t, dir, "a.bin", []byte{1, 2, 3})
	writeFile(t, dir, "encrypted_a.bin", bytes.Repeat([]byte("stale"), 100))

	res, err := e.Transform(input, Encrypt)
	require.NoError(t, err)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, len(EncryptedMarker)+1+3, len(data))
}

func TestTransform_SameNameReplacesInput(t *testing.T) {
	for _, staging := range []bool{true, false} {
		t.Run(fmt.Sprintf("staging=%v", staging), func(t *testing.T) {
			dir := t.TempDir()
			e := testEngine(t, WithStaging(staging))
			orig := []byte("already has the prefix")
			input := writeFile(t, dir, "encrypted_x.txt", orig)

			res, err := e.Transform(input, Encrypt)
			require.NoError(t, err)
			assert.Equal(t, input, res.OutputPath)

			data, err := os.ReadFile(input)
			require.NoError(t, err)
			assert.Equal(t, encrypt(t, e, orig), data)
			assert.Equal(t, []string{"encrypted_x.txt"}, dirNames(t, dir))
		})
	}
}

func TestTransform_MissingInput(t *testing.T) {
	dir := t.TempDir()
	e := testEngine(t)

	_, err := e.Transform(filepath.Join(dir, "ghost.txt"), Decrypt)
	assert.ErrorIs(t, err, picerrors.ErrInputUnreadable)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, dirNames(t, dir))
}

func TestTransform_UnknownMode(t *testing.T) {
	dir := t.TempDir()
	e := testEngine(t)
	input := writeFile(t, dir, "a.txt", []byte("a"))

	_, err := e.Transform(input, Mode(42))
	assert.ErrorIs(t, err, picerrors.ErrUnknownMode)
	assert.Equal(t, []string{"a.txt"}, dirNames(t, dir))
}

func TestTransform_OutputUnwritable(t *testing.T) {
	for _, staging := range []bool{true, false} {
		t.Run(fmt.Sprintf("staging=%v", staging), func(t *testing.T) {
			dir := t.TempDir()
			e := testEngine(t, WithStaging(staging))
			input := writeFile(t, dir, "a.txt", []byte("data"))
			// A directory squatting on the output name cannot be replaced.
			require.NoError(t, os.Mkdir(filepath.Join(dir, "encrypted_a.txt"), 0o755))

			_, err := e.Transform(input, Encrypt)
			assert.ErrorIs(t, err, picerrors.ErrOutputUnwritable)
			assert.ElementsMatch(t, []string{"a.txt", "encrypted_a.txt"}, dirNames(t, dir),
				"no staged temp file may be left behind")
		})
	}
}

func TestTransform_ReadFailureMidStream(t *testing.T) {
	// Opening a directory succeeds but reading from it fails.
	t.Run("staged output is removed", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "notes"), 0o755))
		e := testEngine(t)

		_, err := e.Transform(filepath.Join(dir, "notes"), Encrypt)
		assert.ErrorIs(t, err, picerrors.ErrInputUnreadable)
		assert.Equal(t, []string{"notes"}, dirNames(t, dir))
	})

	t.Run("in-place output is left partial", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "notes"), 0o755))
		e := testEngine(t, WithStaging(false))

		_, err := e.Transform(filepath.Join(dir, "notes"), Encrypt)
		assert.ErrorIs(t, err, picerrors.ErrInputUnreadable)
		assert.ElementsMatch(t, []string{"notes", "encrypted_notes"}, dirNames(t, dir))
	})
}

func TestTransform_Concurrent(t *testing.T) {
	dir := t.TempDir()
	e := testEngine(t)

	const files = 16
	var wg sync.WaitGroup
	errs := make([]error, files)
	plains := make([][]byte, files)

	for i := range files {
		plains[i] = []byte(strings.Repeat(fmt.Sprintf("file %d line\n", i), i+1))
		input := writeFile(t, dir, fmt.Sprintf("f%02d.txt", i), plains[i])

		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Transform(input, Encrypt)
			if err == nil {
				_, err = e.Transform(res.OutputPath, Decrypt)
			}
			errs[i] = err
		}()
	}
	wg.Wait()

	for i := range files {
		require.NoError(t, errs[i])
		data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("decrypted_f%02d.txt", i)))
		require.NoError(t, err)
		assert.Equal(t, DecryptedMarker+"\n"+string(plains[i]), string(data))
	}
}

func TestTransform_Logs(t *testing.T) {
	dir := t.TempDir()
	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "engine_test",
		Level:  hclog.Info,
		Output: &logs,
	})
	e := testEngine(t, WithLogger(logger))
	input := writeFile(t, dir, "a.txt", []byte("a"))

	_, err := e.Transform(input, Encrypt)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "Transform complete")
	assert.Contains(t, logs.String(), "mode=encrypt")
}
