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
	"fmt"
)

// ErrUnknownPduType returned on encode when no descriptor is
// registered for the requested PDU type. Decode never returns it:
// unknown types degrade to a header-only tree.
type ErrUnknownPduType struct {
	PduType PduType
}

func (e ErrUnknownPduType) Error() string {
	return fmt.Sprintf("No encoding registered for PDU type %d", e.PduType)
}

// ErrFieldValue returned when a value tree does not match the
// descriptor it is serialized against.
type ErrFieldValue struct {
	Field string
	What  string
}

func (e ErrFieldValue) Error() string {
	return fmt.Sprintf("Bad value for field %q: %s", e.Field, e.What)
}

// ErrTruncated returned on decode when the datagram is shorter than
// the descriptor requires.
type ErrTruncated struct {
	Field string
}

func (e ErrTruncated) Error() string {
	return fmt.Sprintf("Datagram truncated at field %q", e.Field)
}

// ErrBadDatetime returned when a local datetime string can not be
// parsed.
type ErrBadDatetime struct {
	Value string
}

func (e ErrBadDatetime) Error() string {
	return fmt.Sprintf("Can not parse local datetime %q", e.Value)
}
