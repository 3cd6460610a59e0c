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

package layers

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/gopacket"
)

func TestDecodeFromBytes(t *testing.T) {
	payload := []byte("[9042, 4484, 579, 552]")
	ps := &PulseStreamLayer{}
	err := ps.DecodeFromBytes(payload, gopacket.NilDecodeFeedback)
	assert.NoError(t, err)
	assert.Equal(t, []int{9042, 4484, 579, 552}, ps.Timings)
}

func TestDecodeToleratesWhitespace(t *testing.T) {
	ps := &PulseStreamLayer{}
	err := ps.DecodeFromBytes([]byte("  [9042,4484]\n"), gopacket.NilDecodeFeedback)
	assert.NoError(t, err)
	assert.Equal(t, []int{9042, 4484}, ps.Timings)
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
	}{
		{"empty payload", []byte("")},
		{"not a timing array", []byte(`{"frequency": 38000}`)},
		{"binary junk", []byte{0x01, 0x7C, 0x00, 0x04}},
		{"malformed array", []byte("[9042, 4484")},
		{"fractional duration", []byte("[9042.5, 4484]")},
		{"negative duration", []byte("[9042, -4484]")},
		{"no burst values", []byte("[]")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ps := &PulseStreamLayer{}
			err := ps.DecodeFromBytes(c.payload, gopacket.NilDecodeFeedback)
			assert.Error(t, err)
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	ps := &PulseStreamLayer{
		Timings: []int{9042, 4484, 579, 552, 580, 567},
	}
	buf := gopacket.NewSerializeBuffer()
	err := ps.SerializeTo(buf, gopacket.SerializeOptions{})
	assert.NoError(t, err)

	decoded := &PulseStreamLayer{}
	err = decoded.DecodeFromBytes(buf.Bytes(), gopacket.NilDecodeFeedback)
	assert.NoError(t, err)
	assert.Equal(t, ps.Timings, decoded.Timings)
}
