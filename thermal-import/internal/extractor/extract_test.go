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

package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytherm/core/core/exifcodec"
	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
)

// Puts a dummy image file on disk so the staging copy step has something to
// duplicate. Content doesn't matter, tags come from the MemCodec.
func writeDummyImage(t *testing.T, dir string, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{0xFF, 0xD8, 0xFF}, 0666))
}

func TestExtractPositionRecordRTK(t *testing.T) {
	folder := t.TempDir()
	staging := t.TempDir()
	fs := &fileaccess.FSAccess{}

	codec := exifcodec.NewMemCodec()
	codec.SetTags("DJI_0001.JPG", nil, exifcodec.TagMap{
		"Xmp.drone-dji.GpsLatitude":      "31.5",
		"Xmp.drone-dji.GpsLongitude":     "120.25",
		"Xmp.drone-dji.AbsoluteAltitude": "+112.334",
		"Xmp.drone-dji.GimbalYawDegree":  "+5.10",
		"Xmp.drone-dji.RtkStdLat":        "0.01",
	})
	writeDummyImage(t, folder, "DJI_0001.JPG")

	record, err := ExtractPositionRecord(codec, fs, staging, folder, "DJI_0001.JPG")
	require.NoError(t, err)

	assert.Equal(t, "DJI_0001.JPG", record.ImageName)
	assert.Equal(t, "31.5", record.Tags[ColLatitude])
	assert.Equal(t, "120.25", record.Tags[ColLongitude])
	assert.Equal(t, "112.334", record.Tags[ColAltitude], "leading + must be stripped")
	assert.Equal(t, "5.10", record.Tags[ColYaw])
	assert.Equal(t, "", record.Tags[ColPitch], "missing tag renders empty")

	// RTK std dev present, so the high-precision constants apply
	assert.Equal(t, "0.03", record.Tags[ColHorizAccuracy])
	assert.Equal(t, "0.06", record.Tags[ColVertAccuracy])

	// The staging duplicate must be gone again
	listing, err := fs.ListObjects(staging, "")
	require.NoError(t, err)
	assert.Empty(t, listing)
}

func TestExtractPositionRecordNoRTK(t *testing.T) {
	folder := t.TempDir()
	fs := &fileaccess.FSAccess{}

	codec := exifcodec.NewMemCodec()
	codec.SetTags("DJI_0002.JPG", nil, exifcodec.TagMap{
		"Xmp.drone-dji.GpsLatitude":      "91.2",   // out of range, must blank
		"Xmp.drone-dji.GpsLongitude":     "badnum", // unparsable, must blank
		"Xmp.drone-dji.GimbalRollDegree": "-0.5",
	})
	writeDummyImage(t, folder, "DJI_0002.JPG")

	record, err := ExtractPositionRecord(codec, fs, t.TempDir(), folder, "DJI_0002.JPG")
	require.NoError(t, err)

	assert.Equal(t, "", record.Tags[ColLatitude])
	assert.Equal(t, "", record.Tags[ColLongitude])
	assert.Equal(t, "-0.5", record.Tags[ColRoll])
	assert.Equal(t, "2", record.Tags[ColHorizAccuracy])
	assert.Equal(t, "10", record.Tags[ColVertAccuracy])
}

func TestExtractPositionRecordNoMetadata(t *testing.T) {
	folder := t.TempDir()
	fs := &fileaccess.FSAccess{}

	codec := exifcodec.NewMemCodec()
	codec.SetTags("DJI_0003.JPG", nil, exifcodec.TagMap{})
	writeDummyImage(t, folder, "DJI_0003.JPG")

	_, err := ExtractPositionRecord(codec, fs, t.TempDir(), folder, "DJI_0003.JPG")
	assert.True(t, errors.Is(err, ErrNoMetadata))
}

func TestExtractRecordDynamic(t *testing.T) {
	folder := t.TempDir()
	fs := &fileaccess.FSAccess{}

	codec := exifcodec.NewMemCodec()
	codec.SetTags("DJI_0004.JPG",
		exifcodec.TagMap{
			"Exif.GPSInfo.GPSLatitude": "31.5",
			"Exif.Image.Make":          "DJI",
			"Exif.Photo.ExposureTime":  "1/500", // no keyword match, dropped
		},
		exifcodec.TagMap{
			"Xmp.drone-dji.AbsoluteAltitude": "+99.5",
			"Xmp.xmp.CreatorTool":            "v1.0", // no keyword match, dropped
		})
	writeDummyImage(t, folder, "DJI_0004.JPG")

	record, err := ExtractRecord(codec, fs, t.TempDir(), folder, "DJI_0004.JPG")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Exif.GPSInfo.GPSLatitude":       "31.5",
		"Exif.Image.Make":                "DJI",
		"Xmp.drone-dji.AbsoluteAltitude": "99.5",
	}, record.Tags)
}

func TestExtractRecordDynamicEmptyValue(t *testing.T) {
	folder := t.TempDir()
	fs := &fileaccess.FSAccess{}

	// The key survived filtering even though the camera left it blank, so
	// this is a record, not a no-metadata skip. The blank renders as an
	// empty table cell.
	codec := exifcodec.NewMemCodec()
	codec.SetTags("DJI_0005.JPG",
		exifcodec.TagMap{"Exif.GPSInfo.GPSMapDatum": ""},
		exifcodec.TagMap{})
	writeDummyImage(t, folder, "DJI_0005.JPG")

	record, err := ExtractRecord(codec, fs, t.TempDir(), folder, "DJI_0005.JPG")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Exif.GPSInfo.GPSMapDatum": ""}, record.Tags)
}

func TestProcessFolder(t *testing.T) {
	folder := t.TempDir()
	staging := t.TempDir()
	fs := &fileaccess.FSAccess{}
	log := &logger.RecordingLogger{}

	codec := exifcodec.NewMemCodec()
	codec.SetTags("DJI_0001.JPG", nil, exifcodec.TagMap{
		"Xmp.drone-dji.GpsLatitude":  "31.5",
		"Xmp.drone-dji.GpsLongitude": "120.25",
	})
	codec.SetTags("DJI_0002.JPG", nil, exifcodec.TagMap{}) // nothing on it
	codec.SetTags("DJI_0003.JPG", nil, exifcodec.TagMap{
		"Xmp.drone-dji.GpsLatitude": "30.1",
	})
	codec.FailRead["DJI_0004.JPG"] = true

	for _, name := range []string{"DJI_0001.JPG", "DJI_0002.JPG", "DJI_0003.JPG", "DJI_0004.JPG"} {
		writeDummyImage(t, folder, name)
	}
	// Non-image files must be ignored entirely
	require.NoError(t, os.WriteFile(filepath.Join(folder, "flight-log.txt"), []byte("x"), 0666))

	stats, err := ProcessFolder(folder, ModePosition, codec, fs, staging, log)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Extracted)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)

	// Only images that yielded a record appear as rows
	data, err := os.ReadFile(filepath.Join(folder, PositionTableFileName))
	require.NoError(t, err)

	expected := fmt.Sprintf("%v\n%v\n%v\n",
		"照片名称,纬度,经度,高度,Yaw,Pitch,Roll,水平精度,垂直精度",
		"DJI_0001.JPG,31.5,120.25,,,,,2,10",
		"DJI_0003.JPG,30.1,,,,,,2,10")
	assert.Equal(t, expected, string(data))
}

func TestProcessFolderNothingExtracted(t *testing.T) {
	folder := t.TempDir()
	fs := &fileaccess.FSAccess{}

	codec := exifcodec.NewMemCodec()
	codec.SetTags("DJI_0001.JPG", nil, exifcodec.TagMap{})
	writeDummyImage(t, folder, "DJI_0001.JPG")

	stats, err := ProcessFolder(folder, ModePosition, codec, fs, t.TempDir(), &logger.NullLogger{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Extracted)
	assert.Equal(t, 1, stats.Skipped)

	// No records means no table file
	exists, err := fs.ObjectExists(folder, PositionTableFileName)
	require.NoError(t, err)
	assert.False(t, exists)
}
