package utils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

func Fatal(v any) {
	logrus.StandardLogger().Errorf("goffas:\n\t\033[0;1;31mfatal\033[0m: %v", v)
	debug.PrintStack()
	logrus.Exit(1)
}

func MustNo(err error) {
	if err != nil {
		Fatal(err.Error())
	}
}

// Read decodes a fixed-layout value from the front of data. GOFF is a
// big-endian format, so everything here is big-endian.
func Read[T any](data []byte) (val T) {
	reader := bytes.NewReader(data)
	err := binary.Read(reader, binary.BigEndian, &val)

	MustNo(err)

	return val
}

// Write encodes val at the front of data, which must be large enough.
func Write[T any](data []byte, val T) {
	buf := &bytes.Buffer{}
	err := binary.Write(buf, binary.BigEndian, val)
	MustNo(err)
	Assert(len(data) >= buf.Len())
	copy(data, buf.Bytes())
}

func Assert(condition bool) {
	if !condition {
		Fatal("Assert Failed")
	}
}

func Assertf(condition bool, format string, args ...any) {
	if !condition {
		Fatal(fmt.Sprintf(format, args...))
	}
}
