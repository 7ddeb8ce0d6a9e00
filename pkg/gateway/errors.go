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

package gateway

import (
	"fmt"
)

// ErrTextTooLong returned when a marking text exceeds the 11 ASCII
// characters the entity marking record can carry
type ErrTextTooLong struct {
	Text string
}

func (e ErrTextTooLong) Error() string {
	return fmt.Sprintf("The text cannot have more than 11 characters: %q", e.Text)
}

// ErrInvalidEnum returned when an appearance code is outside its
// documented range
type ErrInvalidEnum struct {
	What  string
	Value int
}

func (e ErrInvalidEnum) Error() string {
	return fmt.Sprintf("Invalid %s code: %d", e.What, e.Value)
}

// ErrUnknownRadioChannel returned when a radio channel has no
// preassigned carrier frequency
type ErrUnknownRadioChannel struct {
	Channel int
}

func (e ErrUnknownRadioChannel) Error() string {
	return fmt.Sprintf("No preassigned frequency for radio channel %d", e.Channel)
}

// ErrUnknownEntityType returned when an entity type key is not in the
// configured catalog
type ErrUnknownEntityType struct {
	Key string
}

func (e ErrUnknownEntityType) Error() string {
	return fmt.Sprintf("Entity type %q is not in the configured catalog", e.Key)
}

// ErrNotImplemented returned for PDU kinds the gateway deliberately
// does not produce
type ErrNotImplemented struct {
	What string
}

func (e ErrNotImplemented) Error() string {
	return fmt.Sprintf("%s PDUs are not implemented", e.What)
}
