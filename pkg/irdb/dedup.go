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
)

// Set keeps the unique Patterns of a corpus. Decoding different codes is
// embarrassingly parallel, the set is the single synchronization point,
// so inserts are safe for concurrent writers.
type Set struct {
	mu       sync.Mutex
	patterns map[string]Pattern
}

func NewSet() *Set {
	return &Set{
		patterns: make(map[string]Pattern),
	}
}

// Add inserts the pattern and reports whether it was not already present
func (s *Set) Add(p Pattern) bool {
	key := p.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patterns[key]; ok {
		return false
	}
	s.patterns[key] = p
	return true
}

// Contains reports membership by value equality
func (s *Set) Contains(p Pattern) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.patterns[p.Key()]
	return ok
}

// Len returns the number of unique patterns
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patterns)
}

// Patterns returns a snapshot of the unique patterns
func (s *Set) Patterns() []Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	patterns := make([]Pattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		patterns = append(patterns, p)
	}
	return patterns
}
