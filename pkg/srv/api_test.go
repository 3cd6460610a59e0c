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

package srv

import (
	"bytes"
	"compress/gzip"
	"crypto/aes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/ysard/mi-remote-database/pkg/catalog"
	"github.com/ysard/mi-remote-database/pkg/config"
)

func newTestServer(t *testing.T) *ApiServer {
	t.Helper()
	state, err := catalog.NewState(filepath.Join(t.TempDir(), "mirdb.db"))
	assert.NoError(t, err)
	t.Cleanup(state.Close)

	server := NewApiServer(config.NewDefaultConfig(), state)
	server.configureRouter()
	return server
}

func cipherCode(t *testing.T, timings []int) string {
	t.Helper()
	payload, err := json.Marshal(timings)
	assert.NoError(t, err)

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, err = zw.Write(payload)
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())

	plain := compressed.Bytes()
	for len(plain)%aes.BlockSize != 0 {
		plain = append(plain, ' ')
	}
	block, err := aes.NewCipher([]byte("fd7e915003168929c1a9b0ec32a60788"))
	assert.NoError(t, err)
	cipher := make([]byte, len(plain))
	for i := 0; i < len(plain); i += aes.BlockSize {
		block.Encrypt(cipher[i:i+aes.BlockSize], plain[i:i+aes.BlockSize])
	}
	return base64.StdEncoding.EncodeToString(cipher)
}

func TestHandleDevices(t *testing.T) {
	server := newTestServer(t)
	assert.NoError(t, server.State.SetDevice(1, "TV"))

	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/devices", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var devices map[string]string
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&devices))
	assert.Equal(t, map[string]string{"1": "TV"}, devices)
}

func TestHandleBrands(t *testing.T) {
	server := newTestServer(t)
	assert.NoError(t, server.State.SetDevice(1, "TV"))
	assert.NoError(t, server.State.SetBrand(catalog.Brand{ID: 64, Name: "Samsung", DeviceID: 1}))

	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/brands/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var brands []catalog.Brand
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&brands))
	assert.Equal(t, []catalog.Brand{{ID: 64, Name: "Samsung", DeviceID: 1}}, brands)

	rec = httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/brands/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePatterns(t *testing.T) {
	server := newTestServer(t)
	assert.NoError(t, server.State.SetDevice(1, "TV"))
	dump, err := json.Marshal(map[string]interface{}{
		"status": 0,
		"data": map[string]interface{}{
			"frequency": 37990,
			"key":       map[string]string{"power": cipherCode(t, []int{9042, 4484, 579, 552})},
		},
	})
	assert.NoError(t, err)
	assert.NoError(t, server.State.SetModel(1, "xm_1_629", dump))

	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/patterns/1/xm_1_629", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var codes []decodedCode
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&codes))
	assert.Equal(t, 1, len(codes))
	assert.Equal(t, "power", codes[0].Name)
	assert.Equal(t, 37990, codes[0].Frequency)
	assert.Equal(t, []int{9042, 4484, 579, 552}, codes[0].Raw)
	assert.Equal(t, []int{344, 170, 22, 21}, codes[0].Pulses)
}

func TestHandleDecode(t *testing.T) {
	server := newTestServer(t)
	code := cipherCode(t, []int{9042, 4484, 579, 552})
	body := strings.NewReader(`{"code": "` + code + `", "frequency": 38000}`)

	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/decode", body))
	assert.Equal(t, http.StatusOK, rec.Code)

	var decoded decodedCode
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&decoded))
	assert.Equal(t, 38000, decoded.Frequency)
	assert.Equal(t, []int{9042, 4484, 579, 552}, decoded.Raw)
	assert.Equal(t, []int{9042, -4484, 579, -552}, decoded.SignedRaw)
	assert.Equal(t, []int{344, 170, 22, 21}, decoded.Pulses)
}

func TestHandleDecodeWithoutFrequency(t *testing.T) {
	server := newTestServer(t)
	code := cipherCode(t, []int{9042, 4484})

	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/decode",
		strings.NewReader(`{"code": "`+code+`"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var decoded decodedCode
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&decoded))
	assert.Equal(t, 0, decoded.Frequency)
	assert.Equal(t, []int{9042, 4484}, decoded.Raw)
	// Frequency dependent representations are left out
	assert.Equal(t, 0, len(decoded.Pulses))
	assert.Equal(t, "", decoded.Pronto)
}

func TestHandleDecodeRejectsGarbage(t *testing.T) {
	server := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/decode", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	server.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/decode", strings.NewReader(`{"code": "!!!"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
