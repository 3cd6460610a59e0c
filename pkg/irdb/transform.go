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
	"fmt"
	"io"
	"strings"
)

// patternKey is the fixed vendor key the codes are ciphered with.
// It is configuration known in advance, not derived at runtime.
const patternKey = "fd7e915003168929c1a9b0ec32a60788"

// Unwrap decodes the base64 envelope of a vendor code into the raw cipher buffer
func Unwrap(text string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, ErrDecode{What: err.Error()}
	}
	if len(raw) < aes.BlockSize {
		return nil, ErrDecode{What: fmt.Sprintf("buffer of %d bytes is shorter than one cipher block", len(raw))}
	}
	if len(raw)%aes.BlockSize != 0 {
		return nil, ErrDecode{What: fmt.Sprintf("buffer of %d bytes is not block aligned", len(raw))}
	}
	return raw, nil
}

// Transform reverses the vendor byte transform: ECB decryption with the
// fixed key, then inflation of the DEFLATE stream found in the plaintext.
// The sliding window of the stream makes the transform order dependent, so
// the whole buffer is processed in one strictly sequential pass.
// Same input buffer, same output payload, always.
func Transform(buf []byte) ([]byte, error) {
	if len(buf) < aes.BlockSize {
		return nil, ErrTransform{What: fmt.Sprintf("buffer of %d bytes is shorter than one cipher block", len(buf))}
	}
	if len(buf)%aes.BlockSize != 0 {
		return nil, ErrTransform{What: fmt.Sprintf("buffer of %d bytes is not block aligned", len(buf))}
	}

	block, err := aes.NewCipher([]byte(patternKey))
	if err != nil {
		return nil, ErrTransform{What: err.Error()}
	}
	plain := make([]byte, len(buf))
	for i := 0; i < len(buf); i += aes.BlockSize {
		block.Decrypt(plain[i:i+aes.BlockSize], buf[i:i+aes.BlockSize])
	}

	zr, err := gzip.NewReader(bytes.NewReader(plain))
	if err != nil {
		return nil, ErrTransform{What: err.Error()}
	}
	defer zr.Close()
	// The vendor pads the plaintext after the stream, read one member only
	zr.Multistream(false)
	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, ErrTransform{What: err.Error()}
	}
	return payload, nil
}
