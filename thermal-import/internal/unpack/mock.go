// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package unpack

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// MockUnpacker - Test double writing pre-canned raw sample buffers, keyed by
// source image base name
type MockUnpacker struct {
	// Raw int16 samples to write per source base name
	Samples map[string][]int16

	// Base names that should act like a non-zero tool exit
	FailOn map[string]bool

	// Records the action passed per call
	ActionsSeen []string
}

func NewMockUnpacker() *MockUnpacker {
	return &MockUnpacker{
		Samples: map[string][]int16{},
		FailOn:  map[string]bool{},
	}
}

func (m *MockUnpacker) Unpack(srcPath string, action string, rawOutPath string) error {
	m.ActionsSeen = append(m.ActionsSeen, action)

	name := filepath.Base(srcPath)
	if m.FailOn[name] {
		return errors.Errorf("simulated tool failure for %v", name)
	}

	samples, ok := m.Samples[name]
	if !ok {
		return errors.Errorf("no raw samples registered for %v", name)
	}

	data := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
	}

	return os.WriteFile(rawOutPath, data, 0666)
}
