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

package irdb

import (
	"fmt"
)

// ErrDecode returned when the base64 envelope of a vendor code is malformed
type ErrDecode struct {
	What string
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("Error while unwrapping vendor code: %s", e.What)
}

// ErrTransform returned when the proprietary byte transform can not be reversed
type ErrTransform struct {
	What string
}

func (e ErrTransform) Error() string {
	return fmt.Sprintf("Error while reversing vendor transform: %s", e.What)
}

// ErrParse returned when the decompressed payload header or body is inconsistent
type ErrParse struct {
	What string
}

func (e ErrParse) Error() string {
	return fmt.Sprintf("Error while parsing pulse stream: %s", e.What)
}

// ErrUnsupportedFormat returned when a Pronto code type tag is not the raw learned one
type ErrUnsupportedFormat struct {
	Tag uint16
}

func (e ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("Unsupported Pronto code type: 0x%04x", e.Tag)
}

// ErrMissingFrequency returned when a frequency dependent conversion is
// requested on a pattern that carries no carrier frequency
type ErrMissingFrequency struct {
	Op string
}

func (e ErrMissingFrequency) Error() string {
	return fmt.Sprintf("Missing carrier frequency for conversion: %s", e.Op)
}

// ErrInconsistentSign returned when signed raw timings break the ON first alternation
type ErrInconsistentSign struct {
	Index int
	Value int
}

func (e ErrInconsistentSign) Error() string {
	return fmt.Sprintf("Inconsistent sign at index %d: %d", e.Index, e.Value)
}
