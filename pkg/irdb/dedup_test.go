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
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSetDeduplicates(t *testing.T) {
	set := NewSet()

	first, err := FromRaw([]int{9042, 4484, 579, 552}, 37990)
	assert.NoError(t, err)
	duplicate, err := FromSignedRawWithFrequency([]int{9042, -4484, 579, -552}, 37990)
	assert.NoError(t, err)
	other, err := FromRaw([]int{9042, 4484, 579, 552}, 38000)
	assert.NoError(t, err)

	assert.True(t, set.Add(first))
	// Same signal through another wire format is a duplicate
	assert.False(t, set.Add(duplicate))
	// Same timings at another frequency is not
	assert.True(t, set.Add(other))

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(first))
	assert.True(t, set.Contains(duplicate))
	assert.Equal(t, 2, len(set.Patterns()))
}

func TestSetConcurrentAdd(t *testing.T) {
	set := NewSet()
	pattern, err := FromRaw([]int{9042, 4484}, 37990)
	assert.NoError(t, err)

	const writers = 16
	inserted := make(chan bool, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted <- set.Add(pattern)
		}()
	}
	wg.Wait()
	close(inserted)

	wins := 0
	for ok := range inserted {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one writer inserts")
	assert.Equal(t, 1, set.Len())
}
