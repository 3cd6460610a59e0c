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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// PulseStreamLayerNum identifies the layer
	PulseStreamLayerNum = 1996
)

type ErrPulseStream struct {
	What string
}

func (e ErrPulseStream) Error() string {
	return fmt.Sprintf("Error while decoding pulse stream payload: %s", e.What)
}

// PulseStreamLayer is the decompressed payload of a vendor IR code: an
// ASCII JSON array of burst durations in microseconds, ON first. The
// carrier frequency is not part of the payload; it travels in the model
// metadata next to the encrypted code.
type PulseStreamLayer struct {
	layers.BaseLayer
	// Timings are the burst durations in microseconds, ON first
	Timings []int
}

var PulseStreamLayerType = gopacket.RegisterLayerType(PulseStreamLayerNum,
	gopacket.LayerTypeMetadata{Name: "PulseStreamLayerType", Decoder: gopacket.DecodeFunc(DecodePulseStreamLayer)})

// LayerType returns the type of the pulse stream layer in the layer catalog
func (ps *PulseStreamLayer) LayerType() gopacket.LayerType {
	return PulseStreamLayerType
}

func (ps *PulseStreamLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		df.SetTruncated()
		return ErrPulseStream{What: "empty payload"}
	}
	ps.BaseLayer = layers.BaseLayer{
		Contents: data[:],
		Payload:  []byte{},
	}
	if trimmed[0] != '[' {
		// Code families not yet reverse engineered (encrypted AC
		// patterns) do not inflate to a timing array
		return ErrPulseStream{What: "payload is not a timing array"}
	}
	var timings []int
	if err := json.Unmarshal(trimmed, &timings); err != nil {
		return ErrPulseStream{What: err.Error()}
	}
	if len(timings) == 0 {
		return ErrPulseStream{What: "payload carries no burst values"}
	}
	for i, v := range timings {
		if v < 0 {
			return ErrPulseStream{What: fmt.Sprintf("negative duration %d at index %d", v, i)}
		}
	}
	ps.Timings = timings
	return nil
}

// SerializeTo serializes the pulse stream layer into bytes and writes the bytes to the SerializeBuffer
func (ps *PulseStreamLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	data, err := json.Marshal(ps.Timings)
	if err != nil {
		return err
	}
	bytes, err := b.AppendBytes(len(data))
	if err != nil {
		return err
	}
	copy(bytes, data)
	return nil
}

func DecodePulseStreamLayer(data []byte, p gopacket.PacketBuilder) error {
	ps := &PulseStreamLayer{}
	err := ps.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(ps)
	return nil
}
