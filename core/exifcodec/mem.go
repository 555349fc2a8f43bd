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

package exifcodec

import (
	"path/filepath"

	"github.com/pkg/errors"
)

// MemCodec - In-memory codec for tests. Tags are keyed by file base name,
// not full path, because the extractor reads from a staging copy of the
// source file and the test double should resolve both to the same image.
type MemCodec struct {
	Exif map[string]TagMap
	Xmp  map[string]TagMap

	// Base names whose reads/writes should fail
	FailRead  map[string]bool
	FailWrite map[string]bool

	// Full paths of every read, for asserting where the codec was pointed
	ReadPaths []string
}

func NewMemCodec() *MemCodec {
	return &MemCodec{
		Exif:      map[string]TagMap{},
		Xmp:       map[string]TagMap{},
		FailRead:  map[string]bool{},
		FailWrite: map[string]bool{},
	}
}

// SetTags - registers an image's tags for both namespaces. Either map can be nil
func (m *MemCodec) SetTags(fileName string, exif TagMap, xmp TagMap) {
	name := filepath.Base(fileName)
	if exif != nil {
		m.Exif[name] = exif
	}
	if xmp != nil {
		m.Xmp[name] = xmp
	}
}

func (m *MemCodec) ReadExif(path string) (TagMap, error) {
	return m.read(path, m.Exif)
}

func (m *MemCodec) ReadXmp(path string) (TagMap, error) {
	return m.read(path, m.Xmp)
}

func (m *MemCodec) read(path string, store map[string]TagMap) (TagMap, error) {
	m.ReadPaths = append(m.ReadPaths, path)

	name := stripStagingPrefix(filepath.Base(path))
	if m.FailRead[name] {
		return nil, errors.Errorf("simulated read failure for %v", name)
	}

	result := TagMap{}
	for key, value := range store[name] {
		result[key] = value
	}
	return result, nil
}

func (m *MemCodec) WriteExif(path string, tags TagMap) error {
	return m.write(path, m.Exif, tags)
}

func (m *MemCodec) WriteXmp(path string, tags TagMap) error {
	return m.write(path, m.Xmp, tags)
}

func (m *MemCodec) write(path string, store map[string]TagMap, tags TagMap) error {
	name := stripStagingPrefix(filepath.Base(path))
	if m.FailWrite[name] {
		return errors.Errorf("simulated write failure for %v", name)
	}

	existing, ok := store[name]
	if !ok {
		existing = TagMap{}
		store[name] = existing
	}
	for key, value := range tags {
		existing[key] = value
	}
	return nil
}

// The extractor prefixes its staging copies with "temp_", strip that off so
// the copy resolves to the original image's registered tags
func stripStagingPrefix(name string) string {
	const prefix = "temp_"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}
