package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/san-kum/galileo/internal/session"
)

// Level 5 MAT-file constants.
const (
	matHeaderText = 116
	matHeaderSize = 128
	matVersion    = 0x0100
	miInt8        = 1
	miInt32       = 5
	miUint32      = 6
	miDouble      = 9
	miMatrix      = 14
	mxDoubleClass = 6
)

var errBadMAT = errors.New("storage: not a little-endian level 5 MAT-file")

// WriteMAT writes the samples as two double column vectors named Time and
// Angle, the layout MATLAB and scipy.io.loadmat read back as a record with
// those two fields.
func WriteMAT(w io.Writer, samples []session.Sample) error {
	times, angles := Columns(samples)

	header := make([]byte, matHeaderSize)
	text := fmt.Sprintf("MATLAB 5.0 MAT-file, Platform: galileo, Created on: %s", time.Now().Format(time.ANSIC))
	copy(header, bytes.Repeat([]byte{' '}, matHeaderText))
	copy(header, text)
	binary.LittleEndian.PutUint16(header[124:], matVersion)
	header[126], header[127] = 'I', 'M'
	if _, err := w.Write(header); err != nil {
		return err
	}

	if err := writeMatrix(w, TimeColumn, times); err != nil {
		return err
	}
	return writeMatrix(w, AngleColumn, angles)
}

func writeMatrix(w io.Writer, name string, values []float64) error {
	var body bytes.Buffer

	flags := make([]byte, 8)
	binary.LittleEndian.PutUint32(flags, mxDoubleClass)
	writeElement(&body, miUint32, flags)

	dims := make([]byte, 8)
	binary.LittleEndian.PutUint32(dims, uint32(len(values)))
	binary.LittleEndian.PutUint32(dims[4:], 1)
	writeElement(&body, miInt32, dims)

	writeElement(&body, miInt8, []byte(name))

	re := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(re[8*i:], math.Float64bits(v))
	}
	writeElement(&body, miDouble, re)

	var out bytes.Buffer
	writeTag(&out, miMatrix, body.Len())
	out.Write(body.Bytes())
	_, err := w.Write(out.Bytes())
	return err
}

func writeTag(buf *bytes.Buffer, typ uint32, n int) {
	tag := make([]byte, 8)
	binary.LittleEndian.PutUint32(tag, typ)
	binary.LittleEndian.PutUint32(tag[4:], uint32(n))
	buf.Write(tag)
}

func writeElement(buf *bytes.Buffer, typ uint32, data []byte) {
	writeTag(buf, typ, len(data))
	buf.Write(data)
	if pad := padding(len(data)); pad > 0 {
		buf.Write(make([]byte, pad))
	}
}

func padding(n int) int { return (8 - n%8) % 8 }

// ReadMAT reads the Time and Angle vectors of a MAT-file written by WriteMAT
// or by MATLAB/scipy with double column or row vectors.
func ReadMAT(r io.Reader) ([]session.Sample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < matHeaderSize || data[126] != 'I' || data[127] != 'M' {
		return nil, errBadMAT
	}

	vars := make(map[string][]float64)
	rest := data[matHeaderSize:]
	for len(rest) >= 8 {
		typ, n, payload, next, err := readElement(rest)
		if err != nil {
			return nil, err
		}
		rest = next
		if typ != miMatrix {
			continue
		}
		name, values, err := readMatrix(payload[:n])
		if err != nil {
			return nil, err
		}
		vars[name] = values
	}

	times, okT := vars[TimeColumn]
	angles, okA := vars[AngleColumn]
	if !okT || !okA {
		return nil, ErrMissingColumns
	}
	if len(times) != len(angles) {
		return nil, fmt.Errorf("%w: %d times for %d angles", ErrMalformedRow, len(times), len(angles))
	}

	samples := make([]session.Sample, len(times))
	for i := range times {
		samples[i] = session.Sample{Time: times[i], Angle: angles[i]}
	}
	return samples, nil
}

// readElement decodes one tagged element, including the small-element form
// where type and size share the first word and the payload sits in the tag.
func readElement(b []byte) (typ uint32, n int, payload, rest []byte, err error) {
	if len(b) < 8 {
		return 0, 0, nil, nil, errBadMAT
	}
	first := binary.LittleEndian.Uint32(b)
	if small := first >> 16; small != 0 {
		typ = first & 0xffff
		n = int(small)
		if n > 4 {
			return 0, 0, nil, nil, errBadMAT
		}
		return typ, n, b[4 : 4+n], b[8:], nil
	}

	typ = first
	n = int(binary.LittleEndian.Uint32(b[4:]))
	if n < 0 || 8+n > len(b) {
		return 0, 0, nil, nil, errBadMAT
	}
	end := 8 + n + padding(n)
	if end > len(b) {
		end = len(b)
	}
	return typ, n, b[8 : 8+n], b[end:], nil
}

func readMatrix(b []byte) (string, []float64, error) {
	var (
		name   string
		values []float64
	)
	for i := 0; len(b) >= 8; i++ {
		typ, n, payload, rest, err := readElement(b)
		if err != nil {
			return "", nil, err
		}
		b = rest
		switch i {
		case 0:
			if typ != miUint32 || n < 1 || payload[0] != mxDoubleClass {
				return "", nil, nil
			}
		case 2:
			name = string(payload)
		case 3:
			if typ != miDouble {
				return "", nil, fmt.Errorf("storage: variable %q is not stored as double", name)
			}
			values = make([]float64, n/8)
			for j := range values {
				values[j] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*j:]))
			}
			return name, values, nil
		}
	}
	return name, values, nil
}
