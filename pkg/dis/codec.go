/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package dis

import (
	"bytes"
	"math"
)

// Serialize encodes a value tree against the descriptor registered for
// the given PDU type. Encoding an unregistered type is an error, and
// no bytes are produced unless the whole tree serializes cleanly.
func Serialize(t PduType, pdu Tree) ([]byte, error) {
	enc, ok := pduEncodings[t]
	if !ok {
		return nil, ErrUnknownPduType{PduType: t}
	}
	buf := &bytes.Buffer{}
	if err := serializeComposite(buf, "", enc, pdu); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func serializeComposite(buf *bytes.Buffer, path string, c *Composite, values Tree) error {
	for _, f := range c.Fields {
		name := joinPath(path, f.Name)
		v, ok := values[f.Name]
		if !ok {
			return ErrFieldValue{Field: name, What: "missing"}
		}
		switch n := f.Node.(type) {
		case *Composite:
			sub, ok := v.(Tree)
			if !ok {
				return ErrFieldValue{Field: name, What: "expected a nested tree"}
			}
			if err := serializeComposite(buf, name, n, sub); err != nil {
				return err
			}
		case *Scalar:
			if err := serializeScalar(buf, name, n, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func serializeScalar(buf *bytes.Buffer, name string, s *Scalar, v interface{}) error {
	switch s.Kind {
	case RawBits:
		return writeBitString(buf, name, s.Bits, v)
	case BoolArray:
		bools, ok := v.([]bool)
		if !ok {
			return ErrFieldValue{Field: name, What: "expected []bool"}
		}
		if len(bools) != s.Count {
			return ErrFieldValue{Field: name, What: "wrong boolean count"}
		}
		packed := make([]byte, (s.Count+7)/8)
		for i, b := range bools {
			if b {
				packed[i/8] |= 1 << (7 - uint(i%8))
			}
		}
		buf.Write(packed)
		return nil
	case Bytes:
		data, ok := v.([]byte)
		if !ok {
			return ErrFieldValue{Field: name, What: "expected []byte"}
		}
		if s.Count > 0 && len(data) != s.Count {
			return ErrFieldValue{Field: name, What: "wrong byte count"}
		}
		buf.Write(data)
		return nil
	}

	// Numeric kinds, possibly repeated.
	if s.count() == 1 {
		return writeNumeric(buf, name, s, v)
	}
	switch vals := v.(type) {
	case []uint64:
		if len(vals) != s.count() {
			return ErrFieldValue{Field: name, What: "wrong element count"}
		}
		for _, el := range vals {
			if err := writeNumeric(buf, name, s, el); err != nil {
				return err
			}
		}
	case []int64:
		if len(vals) != s.count() {
			return ErrFieldValue{Field: name, What: "wrong element count"}
		}
		for _, el := range vals {
			if err := writeNumeric(buf, name, s, el); err != nil {
				return err
			}
		}
	case []float64:
		if len(vals) != s.count() {
			return ErrFieldValue{Field: name, What: "wrong element count"}
		}
		for _, el := range vals {
			if err := writeNumeric(buf, name, s, el); err != nil {
				return err
			}
		}
	default:
		return ErrFieldValue{Field: name, What: "expected a slice of elements"}
	}
	return nil
}

func writeBitString(buf *bytes.Buffer, name string, bits int, v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return ErrFieldValue{Field: name, What: "expected a bit string"}
	}
	if len(str) != bits {
		return ErrFieldValue{Field: name, What: "wrong bit count"}
	}
	packed := make([]byte, (bits+7)/8)
	for i := 0; i < bits; i++ {
		switch str[i] {
		case '1':
			packed[i/8] |= 1 << (7 - uint(i%8))
		case '0':
		default:
			return ErrFieldValue{Field: name, What: "bit string must contain only 0 and 1"}
		}
	}
	buf.Write(packed)
	return nil
}

func writeNumeric(buf *bytes.Buffer, name string, s *Scalar, v interface{}) error {
	var word uint64
	switch s.Kind {
	case Unsigned:
		u, err := toUint64(name, v)
		if err != nil {
			return err
		}
		if s.Bits < 64 && u >= 1<<uint(s.Bits) {
			return ErrFieldValue{Field: name, What: "value out of range"}
		}
		word = u
	case Signed:
		i, err := toInt64(name, v)
		if err != nil {
			return err
		}
		if s.Bits < 64 {
			limit := int64(1) << uint(s.Bits-1)
			if i >= limit || i < -limit {
				return ErrFieldValue{Field: name, What: "value out of range"}
			}
		}
		word = uint64(i)
	case Float:
		f, err := toFloat64(name, v)
		if err != nil {
			return err
		}
		if s.Bits == 32 {
			word = uint64(math.Float32bits(float32(f)))
		} else {
			word = math.Float64bits(f)
		}
	}
	n := s.Bits / 8
	for i := n - 1; i >= 0; i-- {
		buf.WriteByte(byte(word >> uint(8*i)))
	}
	return nil
}

func toUint64(name string, v interface{}) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, ErrFieldValue{Field: name, What: "negative value for unsigned field"}
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, ErrFieldValue{Field: name, What: "negative value for unsigned field"}
		}
		return uint64(n), nil
	}
	return 0, ErrFieldValue{Field: name, What: "expected an unsigned integer"}
}

func toInt64(name string, v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	}
	return 0, ErrFieldValue{Field: name, What: "expected a signed integer"}
}

func toFloat64(name string, v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, ErrFieldValue{Field: name, What: "expected a float"}
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) take(n int, field string) ([]byte, error) {
	if r.off+n > len(r.data) {
		return nil, ErrTruncated{Field: field}
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) rest() []byte {
	b := r.data[r.off:]
	r.off = len(r.data)
	return b
}

// Deserialize decodes a datagram. The header is always decoded first;
// if its PDU type has no registered descriptor the header-only tree is
// returned without error, so unknown traffic degrades gracefully on
// receive.
func Deserialize(data []byte) (Tree, error) {
	r := &reader{data: data}
	header, err := decodeComposite(r, "pduHeader", HeaderEncoding)
	if err != nil {
		return nil, err
	}
	pdu := Tree{"pduHeader": header}

	t := PduType(header["pduType"].(uint64))
	enc, ok := pduEncodings[t]
	if !ok {
		return pdu, nil
	}
	// Fields[0] is the header, already consumed.
	for _, f := range enc.Fields[1:] {
		switch n := f.Node.(type) {
		case *Composite:
			sub, err := decodeComposite(r, f.Name, n)
			if err != nil {
				return nil, err
			}
			pdu[f.Name] = sub
		case *Scalar:
			v, err := decodeScalar(r, f.Name, n)
			if err != nil {
				return nil, err
			}
			pdu[f.Name] = v
		}
	}
	return pdu, nil
}

func decodeComposite(r *reader, path string, c *Composite) (Tree, error) {
	tree := Tree{}
	for _, f := range c.Fields {
		name := joinPath(path, f.Name)
		switch n := f.Node.(type) {
		case *Composite:
			sub, err := decodeComposite(r, name, n)
			if err != nil {
				return nil, err
			}
			tree[f.Name] = sub
		case *Scalar:
			v, err := decodeScalar(r, name, n)
			if err != nil {
				return nil, err
			}
			tree[f.Name] = v
		}
	}
	return tree, nil
}

func decodeScalar(r *reader, name string, s *Scalar) (interface{}, error) {
	switch s.Kind {
	case RawBits:
		raw, err := r.take((s.Bits+7)/8, name)
		if err != nil {
			return nil, err
		}
		out := make([]byte, s.Bits)
		for i := 0; i < s.Bits; i++ {
			if raw[i/8]&(1<<(7-uint(i%8))) != 0 {
				out[i] = '1'
			} else {
				out[i] = '0'
			}
		}
		return string(out), nil
	case BoolArray:
		raw, err := r.take((s.Count+7)/8, name)
		if err != nil {
			return nil, err
		}
		bools := make([]bool, s.Count)
		for i := range bools {
			bools[i] = raw[i/8]&(1<<(7-uint(i%8))) != 0
		}
		return bools, nil
	case Bytes:
		if s.Count == 0 {
			return append([]byte(nil), r.rest()...), nil
		}
		raw, err := r.take(s.Count, name)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), raw...), nil
	}

	if s.count() == 1 {
		return readNumeric(r, name, s)
	}
	switch s.Kind {
	case Unsigned:
		vals := make([]uint64, s.count())
		for i := range vals {
			v, err := readNumeric(r, name, s)
			if err != nil {
				return nil, err
			}
			vals[i] = v.(uint64)
		}
		return vals, nil
	case Signed:
		vals := make([]int64, s.count())
		for i := range vals {
			v, err := readNumeric(r, name, s)
			if err != nil {
				return nil, err
			}
			vals[i] = v.(int64)
		}
		return vals, nil
	default:
		vals := make([]float64, s.count())
		for i := range vals {
			v, err := readNumeric(r, name, s)
			if err != nil {
				return nil, err
			}
			vals[i] = v.(float64)
		}
		return vals, nil
	}
}

func readNumeric(r *reader, name string, s *Scalar) (interface{}, error) {
	raw, err := r.take(s.Bits/8, name)
	if err != nil {
		return nil, err
	}
	var word uint64
	for _, b := range raw {
		word = word<<8 | uint64(b)
	}
	switch s.Kind {
	case Unsigned:
		return word, nil
	case Signed:
		if s.Bits < 64 && word&(1<<uint(s.Bits-1)) != 0 {
			word |= ^uint64(0) << uint(s.Bits)
		}
		return int64(word), nil
	default:
		if s.Bits == 32 {
			return float64(math.Float32frombits(uint32(word))), nil
		}
		return math.Float64frombits(word), nil
	}
}
