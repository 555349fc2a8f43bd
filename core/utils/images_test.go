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

package utils

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, path string, w int, h int) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if filepath.Ext(path) == ".png" {
		require.NoError(t, png.Encode(f, img))
	} else {
		require.NoError(t, jpeg.Encode(f, img, nil))
	}
}

func TestReadImageDimensions(t *testing.T) {
	dir := t.TempDir()

	jpgPath := filepath.Join(dir, "DJI_0001.jpg")
	writeTestImage(t, jpgPath, 640, 512)

	w, h, err := ReadImageDimensions(jpgPath)
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 512, h)

	pngPath := filepath.Join(dir, "DJI_0002.png")
	writeTestImage(t, pngPath, 32, 24)

	w, h, err = ReadImageDimensions(pngPath)
	require.NoError(t, err)
	assert.Equal(t, 32, w)
	assert.Equal(t, 24, h)

	_, _, err = ReadImageDimensions(filepath.Join(dir, "nope.jpg"))
	assert.Error(t, err)
}

func TestReadImageFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "small.png")
	writeTestImage(t, path, 4, 3)

	img, err := ReadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}
