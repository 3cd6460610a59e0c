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
	"github.com/google/gopacket"

	"github.com/ysard/mi-remote-database/pkg/layers"
)

// ParsePulseStream interprets a decompressed payload and returns the
// burst durations in microseconds. The payload carries no carrier
// frequency; that value travels in the model metadata next to the
// encrypted code.
func ParsePulseStream(payload []byte) ([]int, error) {
	ps := &layers.PulseStreamLayer{}
	if err := ps.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		return nil, ErrParse{What: err.Error()}
	}
	return ps.Timings, nil
}

// Decode runs the full pipeline on a vendor code: base64 unwrap,
// proprietary transform, pulse stream parsing, Pattern construction.
// The carrier frequency is left unset; frequency dependent conversions
// fail until one is supplied, see DecodeWithFrequency.
func Decode(blob string) (Pattern, error) {
	return DecodeWithFrequency(blob, 0)
}

// DecodeWithFrequency is Decode with the carrier frequency the vendor
// metadata declares for the code
func DecodeWithFrequency(blob string, frequency int) (Pattern, error) {
	raw, err := Unwrap(blob)
	if err != nil {
		return Pattern{}, err
	}
	payload, err := Transform(raw)
	if err != nil {
		return Pattern{}, err
	}
	timings, err := ParsePulseStream(payload)
	if err != nil {
		return Pattern{}, err
	}
	return FromRaw(timings, frequency)
}
