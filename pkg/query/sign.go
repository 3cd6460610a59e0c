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

package query

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// Fixed token and key of the anti replay protection of the vendor API.
// Build time constants, not runtime input.
const (
	urlToken     = "0f9dfa001cba164d7bda671649c50abf"
	urlSecretKey = "581582928c881b42eedce96331bff5d3"
)

// Signature returns the hex HMAC-SHA1 digest of plainText under secretKey
func Signature(plainText, secretKey string) string {
	mac := hmac.New(sha1.New, []byte(secretKey))
	mac.Write([]byte(plainText))
	return hex.EncodeToString(mac.Sum(nil))
}

// OpaqueParam returns the "opaque" parameter to append at the end of a
// query path: the signature of the path concatenated with the token
func OpaqueParam(pathURL, token, secretKey string) string {
	return Signature(pathURL+"&token="+token, secretKey)
}
