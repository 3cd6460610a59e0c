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
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/ysard/mi-remote-database/pkg/log"
)

// Format tags the wire representation a Pattern was constructed from.
// The set is closed, one constructor and one conversion per member.
type Format int

const (
	FormatRaw Format = iota
	FormatSignedRaw
	FormatPronto
	FormatPulses
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatSignedRaw:
		return "signed_raw"
	case FormatPronto:
		return "pronto"
	case FormatPulses:
		return "pulses"
	}
	return "unknown"
}

const (
	// ProntoPeriodUnit is the duration in microseconds of one Pronto
	// carrier period word unit
	ProntoPeriodUnit = 0.241246
	// ProntoLearnedTag is the only supported Pronto code type: raw learned code
	ProntoLearnedTag uint16 = 0x0000
)

// Pattern is a canonical IR waveform.
//
// One pulse is the duration for which the emitter light is held ON or
// OFF. Durations are stored in microseconds, ON first, and converted on
// demand to carrier cycles from the frequency of the PWM carrier acting
// as a clock.
//
// A Pattern is an immutable value: conversions return new strings or
// slices and two Patterns compare equal iff their frequency and pulse
// sequences are equal, whatever wire format produced them.
type Pattern struct {
	frequency int
	pulses    []int
	source    Format
}

// Frequency returns the carrier frequency in Hz, 0 when unset
func (p Pattern) Frequency() int {
	return p.frequency
}

// Source returns the wire format the Pattern was constructed from
func (p Pattern) Source() Format {
	return p.source
}

// Len returns the number of burst values
func (p Pattern) Len() int {
	return len(p.pulses)
}

func (p Pattern) String() string {
	return fmt.Sprintf("<Pattern frequency: %d; pulses: %v>", p.frequency, p.pulses)
}

// Equal reports whether both Patterns describe the same physical signal.
// The source format tag is kept for round trip debugging only and does
// not take part in equality.
func (p Pattern) Equal(other Pattern) bool {
	if p.frequency != other.frequency || len(p.pulses) != len(other.pulses) {
		return false
	}
	for i, v := range p.pulses {
		if v != other.pulses[i] {
			return false
		}
	}
	return true
}

// Hash returns a stable FNV-1a digest of the canonical (frequency, pulses) tuple
func (p Pattern) Hash() uint64 {
	h := fnv.New64a()
	var word [8]byte
	binary.BigEndian.PutUint64(word[:], uint64(int64(p.frequency)))
	h.Write(word[:])
	for _, v := range p.pulses {
		binary.BigEndian.PutUint64(word[:], uint64(int64(v)))
		h.Write(word[:])
	}
	return h.Sum64()
}

// Key returns an exact textual identity for set membership
func (p Pattern) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(p.frequency))
	for _, v := range p.pulses {
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// FromRaw builds a Pattern from unsigned microsecond timings, ON first.
// A frequency of 0 leaves the carrier unset; frequency dependent
// conversions will then fail until one is known.
func FromRaw(timings []int, frequency int) (Pattern, error) {
	if len(timings) == 0 {
		return Pattern{}, ErrParse{What: "empty pulse sequence"}
	}
	pulses := make([]int, len(timings))
	for i, v := range timings {
		if v < 0 {
			return Pattern{}, ErrParse{What: fmt.Sprintf("negative duration %d at index %d", v, i)}
		}
		pulses[i] = v
	}
	return Pattern{frequency: frequency, pulses: pulses, source: FormatRaw}, nil
}

// ToRaw returns the unsigned microsecond timings
func (p Pattern) ToRaw() []int {
	timings := make([]int, len(p.pulses))
	copy(timings, p.pulses)
	return timings
}

// FromSignedRaw builds a Pattern from signed microsecond timings where
// positive values are ON and negative ones OFF. The carrier frequency is
// left unset; see FromSignedRawWithFrequency when it is known separately.
func FromSignedRaw(timings []int) (Pattern, error) {
	return FromSignedRawWithFrequency(timings, 0)
}

// FromSignedRawWithFrequency is FromSignedRaw with an explicit carrier frequency
func FromSignedRawWithFrequency(timings []int, frequency int) (Pattern, error) {
	if len(timings) == 0 {
		return Pattern{}, ErrParse{What: "empty pulse sequence"}
	}
	pulses := make([]int, len(timings))
	for i, v := range timings {
		// ON first convention: even indexes non negative, odd non positive.
		// A zero duration satisfies either sign.
		if i%2 == 0 && v < 0 || i%2 == 1 && v > 0 {
			return Pattern{}, ErrInconsistentSign{Index: i, Value: v}
		}
		if v < 0 {
			v = -v
		}
		pulses[i] = v
	}
	return Pattern{frequency: frequency, pulses: pulses, source: FormatSignedRaw}, nil
}

// ToSignedRaw returns the microsecond timings with alternating sign,
// positive (ON) at even indexes and negative (OFF) at odd ones
func (p Pattern) ToSignedRaw() []int {
	timings := make([]int, len(p.pulses))
	for i, v := range p.pulses {
		if i%2 == 1 {
			v = -v
		}
		timings[i] = v
	}
	return timings
}

// FromPulses builds a Pattern from burst values in carrier cycles.
// duration_us = round(cycles * 1e6 / frequency)
func FromPulses(cycles []int, frequency int) (Pattern, error) {
	if frequency <= 0 {
		return Pattern{}, ErrMissingFrequency{Op: "from_pulses"}
	}
	if len(cycles) == 0 {
		return Pattern{}, ErrParse{What: "empty pulse sequence"}
	}
	pulses := make([]int, len(cycles))
	for i, v := range cycles {
		if v < 0 {
			return Pattern{}, ErrParse{What: fmt.Sprintf("negative cycle count %d at index %d", v, i)}
		}
		pulses[i] = int(math.Round(float64(v) * 1e6 / float64(frequency)))
	}
	return Pattern{frequency: frequency, pulses: pulses, source: FormatPulses}, nil
}

// ToPulses returns the burst values in carrier cycles.
// cycles = round(duration_us * frequency / 1e6)
func (p Pattern) ToPulses() ([]int, error) {
	if p.frequency <= 0 {
		return nil, ErrMissingFrequency{Op: "to_pulses"}
	}
	cycles := make([]int, len(p.pulses))
	for i, v := range p.pulses {
		cycles[i] = int(math.Round(float64(v) * float64(p.frequency) / 1e6))
	}
	return cycles, nil
}

// FromPronto builds a Pattern from whitespace separated 4 digit hex words.
// Word 0 is the code type tag, word 1 the carrier period, words 2 and 3
// the burst pair counts of the one time and repeatable sections, the rest
// are burst pair values in carrier period units. Zero filler words are
// skipped, as emitted by tools that widen values to 32 bits.
func FromPronto(text string) (Pattern, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return Pattern{}, ErrParse{What: fmt.Sprintf("truncated pronto header: %d words", len(fields))}
	}
	words := make([]uint16, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseUint(field, 16, 16)
		if err != nil {
			return Pattern{}, ErrParse{What: fmt.Sprintf("bad pronto word %q at index %d", field, i)}
		}
		words[i] = uint16(value)
	}
	if words[0] != ProntoLearnedTag {
		return Pattern{}, ErrUnsupportedFormat{Tag: words[0]}
	}
	if words[1] == 0 {
		return Pattern{}, ErrParse{What: "zero carrier period"}
	}

	frequency := 1e6 / (float64(words[1]) * ProntoPeriodUnit)
	// words[2], words[3]: burst pair counts of the two embedded sequences
	var pulses []int
	for _, word := range words[4:] {
		if word == 0 {
			continue
		}
		pulses = append(pulses, int(math.Round(float64(word)*1e6/frequency)))
	}
	if len(pulses) == 0 {
		return Pattern{}, ErrParse{What: "empty pulse sequence"}
	}
	return Pattern{
		frequency: int(math.Round(frequency)),
		pulses:    pulses,
		source:    FormatPronto,
	}, nil
}

// ToPronto returns the hex word representation. Microsecond durations are
// re-quantized to carrier period units with rounding, so this direction is
// lossy unless every duration is an exact multiple of the period.
func (p Pattern) ToPronto() (string, error) {
	if p.frequency <= 0 {
		return "", ErrMissingFrequency{Op: "to_pronto"}
	}
	cycles, err := p.ToPulses()
	if err != nil {
		return "", err
	}
	if len(cycles)%2 != 0 {
		log.Warning("Burst pairs are not complete: odd number of values")
	}

	words := make([]string, len(cycles))
	for i, v := range cycles {
		words[i] = fmt.Sprintf("%04X", v)
	}

	sizeSeq1, sizeSeq2 := p.splitSequences()
	frequencyWord := int(math.Round(1e6 / (float64(p.frequency) * ProntoPeriodUnit)))
	return fmt.Sprintf("%04X %04X %04X %04X %s",
		ProntoLearnedTag, frequencyWord, sizeSeq1, sizeSeq2, strings.Join(words, " ")), nil
}

// splitSequences guesses the burst pair counts of the one time and
// repeatable sections. The end of a sequence holds a gap much longer than
// the usual timings; a value above five times the mean, leading burst
// excluded, is taken as such a gap. Exactly two gaps split the code in
// two sections, anything else keeps a single one time section.
func (p Pattern) splitSequences() (int, int) {
	sum := 0
	for _, v := range p.pulses {
		sum += v
	}
	mean := float64(sum) / float64(len(p.pulses))

	var endBurstIndexes []int
	for i, v := range p.pulses {
		if float64(v) > mean*5 && i != 0 {
			endBurstIndexes = append(endBurstIndexes, i)
		}
	}
	if len(endBurstIndexes) == 2 && endBurstIndexes[0] != 0 {
		sizeSeq1 := (endBurstIndexes[0] + 1) / 2
		sizeSeq2 := (len(p.pulses) - (endBurstIndexes[0] + 1)) / 2
		return sizeSeq1, sizeSeq2
	}
	return len(p.pulses) / 2, 0
}
