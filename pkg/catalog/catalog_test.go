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

package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	state, err := NewState(filepath.Join(t.TempDir(), "mirdb.db"))
	assert.NoError(t, err)
	t.Cleanup(state.Close)
	return state
}

func TestStateDevices(t *testing.T) {
	state := newTestState(t)

	devices, err := state.Devices()
	assert.NoError(t, err)
	assert.Equal(t, 0, len(devices))

	assert.NoError(t, state.SetDevice(1, "TV"))
	assert.NoError(t, state.SetDevice(12, "Camera"))

	devices, err = state.Devices()
	assert.NoError(t, err)
	assert.Equal(t, map[int]string{1: "TV", 12: "Camera"}, devices)
}

func TestStateBrands(t *testing.T) {
	state := newTestState(t)
	assert.NoError(t, state.SetDevice(1, "TV"))

	brand := Brand{ID: 64, Name: "Samsung", DeviceID: 1}
	assert.NoError(t, state.SetBrand(brand))

	brands, err := state.Brands(1)
	assert.NoError(t, err)
	assert.Equal(t, []Brand{brand}, brands)

	var notFound ErrBucketNotFound
	_, err = state.Brands(99)
	assert.True(t, errors.As(err, &notFound), "%v", err)
}

func TestStateBrandTrees(t *testing.T) {
	state := newTestState(t)
	assert.NoError(t, state.SetDevice(1, "TV"))

	raw := []byte(`{"status": 0, "data": {}}`)
	assert.NoError(t, state.SetBrandTree(1, 64, raw))

	trees, err := state.BrandTrees(1)
	assert.NoError(t, err)
	assert.Equal(t, map[int][]byte{64: raw}, trees)
}

func TestStateLineupTrees(t *testing.T) {
	state := newTestState(t)
	assert.NoError(t, state.SetDevice(2, "Set-top box"))

	raw := []byte(`{"status": 0, "data": {}}`)
	assert.NoError(t, state.SetLineupTree(2, "fr_orange", raw))

	trees, err := state.LineupTrees(2)
	assert.NoError(t, err)
	assert.Equal(t, map[string][]byte{"fr_orange": raw}, trees)

	var notFound ErrBucketNotFound
	_, err = state.LineupTrees(99)
	assert.True(t, errors.As(err, &notFound), "%v", err)
}

func TestStateModels(t *testing.T) {
	state := newTestState(t)
	assert.NoError(t, state.SetDevice(1, "TV"))

	raw := []byte(`{"status": 0, "data": {"frequency": 37990, "key": {}}}`)
	assert.NoError(t, state.SetModel(1, "xm_1_629", raw))

	value, err := state.Model(1, "xm_1_629")
	assert.NoError(t, err)
	assert.Equal(t, raw, value)

	_, err = state.Model(1, "missing")
	assert.Error(t, err)

	models, err := state.Models(1)
	assert.NoError(t, err)
	assert.Equal(t, map[string][]byte{"xm_1_629": raw}, models)
}
