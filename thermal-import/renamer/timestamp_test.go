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

package renamer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
)

func Example_formatTimestamp() {
	ts, err := FormatTimestamp("2025:02:01 14:30:22")
	fmt.Printf("%v, err=%v\n", ts, err)

	_, err = FormatTimestamp("not a date")
	fmt.Printf("parse failed=%v\n", err != nil)

	// Output:
	// 20250201143022, err=<nil>
	// parse failed=true
}

func Example_timestampedName() {
	name, ok := TimestampedName("DJI_0001_001.JPG", "20250201143022")
	fmt.Printf("%v|%v\n", name, ok)

	name, ok = TimestampedName("DJI_20250201143022_0001_001.JPG", "20250201143022")
	fmt.Printf("%v|%v\n", name, ok)

	name, ok = TimestampedName("DJI_0001.JPG", "20250201143022")
	fmt.Printf("%v|%v\n", name, ok)

	// Output:
	// DJI_20250201143022_0001_001.JPG|true
	// DJI_20250201143022_0001_001.JPG|true
	// |false
}

// fakeCaptureTime serves timestamps from a map keyed by file base name.
// A missing entry behaves like an image with no capture timestamp tag.
func fakeCaptureTime(times map[string]string) CaptureTimeReader {
	return func(imagePath string) (string, error) {
		if t, ok := times[filepath.Base(imagePath)]; ok {
			return t, nil
		}
		return "", errors.Errorf("%v has no capture timestamp", filepath.Base(imagePath))
	}
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	names, err := (&fileaccess.FSAccess{}).ListObjects(dir, "")
	require.NoError(t, err)
	return names
}

func TestProcessFolderRename(t *testing.T) {
	folder := t.TempDir()
	for _, name := range []string{"DJI_0001_001.JPG", "DJI_0002_001.JPG", "DJI_0003.JPG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte{1}, 0666))
	}

	r := &TimestampRenamer{ReadCaptureTime: fakeCaptureTime(map[string]string{
		"DJI_0001_001.JPG": "2025:02:01 14:30:22",
		"DJI_0003.JPG":     "2025:02:01 14:31:05",
	})}

	log := &logger.RecordingLogger{}
	stats := r.ProcessFolder(folder, &fileaccess.FSAccess{}, log)

	// 0001 renamed, 0002 had no timestamp, 0003 has too few segments.
	// notes.txt is not an image and isn't counted at all.
	assert.Equal(t, 1, stats.Renamed)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, []string{"DJI_0002_001.JPG", "DJI_0003.JPG", "DJI_20250201143022_0001_001.JPG", "notes.txt"}, listNames(t, folder))
}

func TestProcessFolderRenameIdempotent(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "DJI_0001_001.JPG"), []byte{1}, 0666))

	times := map[string]string{
		"DJI_0001_001.JPG":                "2025:02:01 14:30:22",
		"DJI_20250201143022_0001_001.JPG": "2025:02:01 14:30:22",
	}
	r := &TimestampRenamer{ReadCaptureTime: fakeCaptureTime(times)}

	first := r.ProcessFolder(folder, &fileaccess.FSAccess{}, &logger.NullLogger{})
	assert.Equal(t, 1, first.Renamed)

	// Second pass finds the timestamp already in place and does nothing
	second := r.ProcessFolder(folder, &fileaccess.FSAccess{}, &logger.NullLogger{})
	assert.Equal(t, 0, second.Renamed)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, []string{"DJI_20250201143022_0001_001.JPG"}, listNames(t, folder))
}

func TestProcessTree(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "flight1")
	require.NoError(t, os.MkdirAll(sub, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "DJI_0001_001.JPG"), []byte{1}, 0666))

	r := &TimestampRenamer{ReadCaptureTime: fakeCaptureTime(map[string]string{
		"DJI_0001_001.JPG": "2025:02:01 14:30:22",
	})}

	stats, err := r.ProcessTree(root, &fileaccess.FSAccess{}, &logger.NullLogger{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Renamed)

	_, err = r.ProcessTree(filepath.Join(root, "no-such-dir"), &fileaccess.FSAccess{}, &logger.NullLogger{})
	assert.Error(t, err)
}
