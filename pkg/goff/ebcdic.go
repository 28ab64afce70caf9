package goff

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// External names are stored in EBCDIC, code page 037.
var nameCharmap = charmap.CodePage037

func encodeName(name string) ([]byte, error) {
	if len(name) > MaxNameLength {
		return nil, errors.Errorf("name %.16q... is %d bytes long, GOFF allows %d", name, len(name), MaxNameLength)
	}
	enc, err := nameCharmap.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil, errors.Wrapf(err, "name %q cannot be encoded in EBCDIC", name)
	}
	return enc, nil
}

func decodeName(b []byte) (string, error) {
	dec, err := nameCharmap.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrap(err, "decode EBCDIC name")
	}
	return string(dec), nil
}
