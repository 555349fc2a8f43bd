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

package pairing

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
)

func Example_baseName() {
	fmt.Println(BaseName("DJI_0001_001.JPG"))
	fmt.Println(BaseName("noext"))
	fmt.Println(BaseName("a.b.tiff"))

	// Output:
	// DJI_0001_001
	// noext
	// a.b
}

func Example_hasExtension() {
	exts := []string{".jpg", ".jpeg"}
	fmt.Println(HasExtension("a.JPG", exts))
	fmt.Println(HasExtension("a.Jpeg", exts))
	fmt.Println(HasExtension("a.png", exts))

	// Output:
	// true
	// true
	// false
}

func TestMatchPairs(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	fs := &fileaccess.FSAccess{}
	log := &logger.RecordingLogger{}

	for _, name := range []string{"A.jpg", "B.JPG", "C.jpg", "skipme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name), []byte{1}, 0666))
	}
	for _, name := range []string{"A.tiff", "B.tif", "unrelated.tiff", "B.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dstDir, name), []byte{1}, 0666))
	}

	pairs, err := MatchPairs(fs, srcDir, dstDir, []string{".jpg", ".jpeg"}, ".tif", log)
	require.NoError(t, err)

	require.Len(t, pairs, 2)
	assert.Equal(t, filepath.Join(srcDir, "A.jpg"), pairs[0].SourcePath)
	assert.Equal(t, filepath.Join(dstDir, "A.tiff"), pairs[0].DestPath)
	assert.Equal(t, filepath.Join(srcDir, "B.JPG"), pairs[1].SourcePath)
	assert.Equal(t, filepath.Join(dstDir, "B.tif"), pairs[1].DestPath)

	// Every pair joins on an identical base name, and no source repeats
	seen := map[string]bool{}
	for _, pair := range pairs {
		assert.Equal(t, BaseName(filepath.Base(pair.SourcePath)), BaseName(filepath.Base(pair.DestPath)))
		assert.False(t, seen[pair.SourcePath])
		seen[pair.SourcePath] = true
	}

	// The unmatched source was diagnosed, not errored
	require.Len(t, log.Lines, 1)
	assert.Contains(t, log.Lines[0], "C.jpg")
}

func TestMatchPairsMissingDir(t *testing.T) {
	srcDir := t.TempDir()
	fs := &fileaccess.FSAccess{}

	_, err := MatchPairs(fs, srcDir, filepath.Join(srcDir, "nope"), []string{".jpg"}, ".tif", &logger.NullLogger{})
	assert.Error(t, err)
}
