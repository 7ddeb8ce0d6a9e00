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

// Package dis implements the binary codec for DIS protocol version 6
// PDUs as exchanged on the European Maritime Simulator Network. The
// wire format is positional: every PDU kind is described by an
// immutable encoding descriptor tree and serialized field by field in
// declared order, big-endian, with no length prefixes or tags.
package dis

// Kind selects the canonical byte representation of a scalar field.
type Kind int

const (
	// Unsigned is a big-endian unsigned integer of Bits width.
	// Enumerations are encoded as unsigned integers.
	Unsigned Kind = iota
	// Signed is a big-endian two's complement integer of Bits width.
	Signed
	// Float is an IEEE 754 value, Bits is 32 or 64.
	Float
	// RawBits is an uninterpreted bit field of Bits length, packed
	// MSB-first. Its value is a string of '0' and '1' symbols.
	RawBits
	// BoolArray packs Count booleans MSB-first into Count/8 bytes.
	BoolArray
	// Bytes is a raw byte field. Count gives the byte count; a Count
	// of zero means a variable trailing field that extends to the end
	// of the datagram.
	Bytes
)

// Node is one node of an encoding descriptor tree, either a Scalar or
// a Composite. Descriptors are built once at package init and never
// mutated.
type Node interface {
	isNode()
}

// Scalar describes a leaf field: Count elements (one if zero) of the
// given Kind and bit width.
type Scalar struct {
	Kind  Kind
	Bits  int
	Count int
}

func (*Scalar) isNode() {}

// Field is a named node. Order of fields inside a Composite is the
// wire order.
type Field struct {
	Name string
	Node Node
}

// Composite describes a record of named fields.
type Composite struct {
	Fields []Field
}

func (*Composite) isNode() {}

// Tree is the ephemeral value tree mirroring a descriptor. Scalar
// fields hold uint64, int64 or float64 (slices thereof when repeated),
// RawBits fields hold bit strings, BoolArray fields hold []bool,
// Bytes fields hold []byte and composite fields hold nested Trees.
type Tree map[string]interface{}

func (s *Scalar) count() int {
	if s.Count == 0 {
		return 1
	}
	return s.Count
}
