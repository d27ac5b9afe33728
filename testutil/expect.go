package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vardthomas/neo-vm/errors"
)

var wd, _ = os.Getwd()

// FatalErr fails the test with err and the stack recorded in it,
// with file names relative to the package directory.
func FatalErr(t testing.TB, err error) {
	t.Helper()
	args := []interface{}{err}
	for _, frame := range errors.Stack(err) {
		file := frame.File
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "../") {
			file = rel
		}
		funcname := frame.Func[strings.LastIndexByte(frame.Func, '/')+1:]
		args = append(args, fmt.Sprintf("\n%s:%d: %s", file, frame.Line, funcname))
	}
	t.Fatal(args...)
}

// ExpectError fails the test unless the root of err is want.
func ExpectError(t testing.TB, err, want error, msg string) {
	t.Helper()
	if errors.Root(err) != want {
		t.Errorf("%s: got error %v, want %v", msg, err, want)
	}
}
