package goff

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// recordWriter splits logical records into 80 byte physical records. The
// first error sticks; later writes are dropped.
type recordWriter struct {
	w       io.Writer
	n       int64
	records uint32
	err     error
}

func newRecordWriter(w io.Writer) *recordWriter {
	return &recordWriter{w: w}
}

// writeRecord emits one logical record made of a fixed-layout part followed
// by variable data.
func (r *recordWriter) writeRecord(typ RecordType, fixed any, data []byte) {
	if r.err != nil {
		return
	}

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.BigEndian, fixed); err != nil {
		r.err = errors.Wrapf(err, "encode %s record", typ)
		return
	}
	buf.Write(data)
	payload := buf.Bytes()

	var rec [RecordLength]byte
	for first := true; first || len(payload) > 0; first = false {
		n := min(len(payload), PayloadLength)

		flags := uint8(typ) << 4
		if !first {
			flags |= FlagContinuation
		}
		if len(payload) > n {
			flags |= FlagContinued
		}

		clear(rec[:])
		rec[0] = PTVPrefix
		rec[1] = flags
		copy(rec[PTVLength:], payload[:n])
		payload = payload[n:]

		written, err := r.w.Write(rec[:])
		r.n += int64(written)
		if err != nil {
			r.err = errors.Wrapf(err, "write %s record", typ)
			return
		}
		r.records++
	}
}
