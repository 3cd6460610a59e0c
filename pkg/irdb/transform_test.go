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
	"bytes"
	"compress/gzip"
	"crypto/aes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/gopacket"

	"github.com/ysard/mi-remote-database/pkg/layers"
)

// vendorCode is a code of the released database, a TV power key whose
// model metadata declares 37990 Hz. It inflates to the timings of the
// testTimings fixture.
const vendorCode = "QJPmll3+SCgpSE73bTO9hni9upbSpKrS73cugR4FZSMT2VGtMTkEIsegm1kjFy3bCLQJsJZKAXxjDF7hGaYIolNzR+qo5f2H3C/PqsSK2Q8kaQaJAycytxhqhVgnwnOUZ6gj0xXscdkPK3MBzr6HH5yEOGDtocCXKP8qEXZdvctnCmFZaZwubXf1Cscf/rlVkAz53JacxfUkCiDqw8M27g=="

// buildPayload serializes a timing array the way the vendor backend does
func buildPayload(t *testing.T, timings []int) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	ps := &layers.PulseStreamLayer{
		Timings: timings,
	}
	err := ps.SerializeTo(buf, gopacket.SerializeOptions{})
	assert.NoError(t, err)
	return buf.Bytes()
}

// wrapCode applies the vendor pipeline forward: gzip compression, space
// padding to the cipher block size, ECB encryption, base64 envelope
func wrapCode(t *testing.T, payload []byte) string {
	t.Helper()
	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, err := zw.Write(payload)
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())

	plain := compressed.Bytes()
	for len(plain)%aes.BlockSize != 0 {
		plain = append(plain, ' ')
	}

	block, err := aes.NewCipher([]byte(patternKey))
	assert.NoError(t, err)
	cipher := make([]byte, len(plain))
	for i := 0; i < len(plain); i += aes.BlockSize {
		block.Encrypt(cipher[i:i+aes.BlockSize], plain[i:i+aes.BlockSize])
	}
	return base64.StdEncoding.EncodeToString(cipher)
}

// The released code must decode to its published timings, byte for byte
// through the real ciphertext, not a self-made one.
func TestDecodeVendorCode(t *testing.T) {
	pattern, err := DecodeWithFrequency(vendorCode, testFrequency)
	assert.NoError(t, err)
	assert.Equal(t, testFrequency, pattern.Frequency())
	assert.Equal(t, testTimings, pattern.ToRaw())

	cycles, err := pattern.ToPulses()
	assert.NoError(t, err)
	assert.Equal(t, testCycles, cycles)
}

func TestDecodeVendorPayloadIsTimingArray(t *testing.T) {
	raw, err := Unwrap(vendorCode)
	assert.NoError(t, err)
	payload, err := Transform(raw)
	assert.NoError(t, err)

	// ASCII JSON array of microseconds, no binary header
	assert.Equal(t, byte('['), bytes.TrimSpace(payload)[0])
	timings, err := ParsePulseStream(payload)
	assert.NoError(t, err)
	assert.Equal(t, testTimings, timings)
}

func TestDecodePipeline(t *testing.T) {
	timings := []int{9042, 4484, 579, 552, 580, 567}
	blob := wrapCode(t, buildPayload(t, timings))

	pattern, err := Decode(blob)
	assert.NoError(t, err)
	// The payload carries no carrier frequency
	assert.Equal(t, 0, pattern.Frequency())
	assert.Equal(t, timings, pattern.ToRaw())

	pattern, err = DecodeWithFrequency(blob, 37990)
	assert.NoError(t, err)
	assert.Equal(t, 37990, pattern.Frequency())
}

func TestDecodeWithoutFrequency(t *testing.T) {
	blob := wrapCode(t, buildPayload(t, []int{9042, 4484}))

	pattern, err := Decode(blob)
	assert.NoError(t, err)

	// Frequency dependent conversions stay blocked until one is known
	var freqErr ErrMissingFrequency
	_, err = pattern.ToPulses()
	assert.True(t, errors.As(err, &freqErr), "%v", err)
	_, err = pattern.ToPronto()
	assert.True(t, errors.As(err, &freqErr), "%v", err)
}

func TestDecodeUnsupportedPayload(t *testing.T) {
	// Not yet reverse engineered code families do not inflate to a
	// timing array
	blob := wrapCode(t, []byte{0x01, 0x7C, 0x00, 0x04, 0x01, 0x58})

	var parseErr ErrParse
	_, err := Decode(blob)
	assert.True(t, errors.As(err, &parseErr), "%v", err)
}

func TestTransformDeterminism(t *testing.T) {
	raw, err := Unwrap(vendorCode)
	assert.NoError(t, err)

	first, err := Transform(raw)
	assert.NoError(t, err)
	second, err := Transform(raw)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUnwrapErrors(t *testing.T) {
	var decodeErr ErrDecode

	_, err := Unwrap("not base64 !!!")
	assert.True(t, errors.As(err, &decodeErr), "%v", err)

	// 8 bytes, shorter than one cipher block
	_, err = Unwrap(base64.StdEncoding.EncodeToString(make([]byte, 8)))
	assert.True(t, errors.As(err, &decodeErr), "%v", err)

	// 20 bytes, not block aligned
	_, err = Unwrap(base64.StdEncoding.EncodeToString(make([]byte, 20)))
	assert.True(t, errors.As(err, &decodeErr), "%v", err)
}

func TestTransformErrors(t *testing.T) {
	var transformErr ErrTransform

	// Shorter than the minimum transform length
	_, err := Transform(make([]byte, 8))
	assert.True(t, errors.As(err, &transformErr), "%v", err)

	_, err = Transform(make([]byte, 24))
	assert.True(t, errors.As(err, &transformErr), "not block aligned: %v", err)

	// Well sized garbage decrypts to a broken compressed stream
	_, err = Transform(bytes.Repeat([]byte{0xA5}, 32))
	assert.True(t, errors.As(err, &transformErr), "%v", err)
}

func TestUnwrapToleratesWhitespace(t *testing.T) {
	_, err := Unwrap("  " + vendorCode + "\n")
	assert.NoError(t, err)
}
