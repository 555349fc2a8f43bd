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

// Extracts vendor metadata from thermal captures and writes the per-folder
// table files downstream photogrammetry tools consume. Tag sets on these
// images are heterogeneous and partially populated, so everything here
// tolerates missing fields - absence is information, not an error.
package extractor

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/skytherm/core/core/exifcodec"
	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/thermal-import/internal/thermModels"
)

// Mode - Which extraction flavour a run uses
type Mode string

const (
	// ModePosition - fixed 9 column pos.txt with RTK-aware accuracy fields
	ModePosition Mode = "position"

	// ModeDynamic - metadata.txt with columns discovered from the batch
	ModeDynamic Mode = "dynamic"
)

// ErrNoMetadata - No tag survived filtering. A skip, not a failure.
var ErrNoMetadata = errors.New("no metadata tags matched")

// Tag keys must contain one of these (case-insensitive) to survive
// filtering: the vendor prefix, positioning system, generic image fields and
// the precision system
var tagKeywords = []string{"dji", "gps", "image", "rtk"}

// XMP tags the position table is built from
const (
	tagGpsLatitude  = "Xmp.drone-dji.GpsLatitude"
	tagGpsLongitude = "Xmp.drone-dji.GpsLongitude"
	tagAbsoluteAlt  = "Xmp.drone-dji.AbsoluteAltitude"
	tagGimbalYaw    = "Xmp.drone-dji.GimbalYawDegree"
	tagGimbalPitch  = "Xmp.drone-dji.GimbalPitchDegree"
	tagGimbalRoll   = "Xmp.drone-dji.GimbalRollDegree"
	tagRtkStdLat    = "Xmp.drone-dji.RtkStdLat"
)

// Accuracy constants in metres. RTK fix present means centimetre-grade,
// otherwise plain GNSS.
const (
	rtkHorizontalAccuracy = "0.03"
	rtkVerticalAccuracy   = "0.06"
	stdHorizontalAccuracy = "2"
	stdVerticalAccuracy   = "10"
)

// withStagingCopy - The codec cannot be trusted with the source path's
// character set (field folders are routinely named in Chinese), so reads
// operate on a duplicate in our own staging dir. The duplicate is removed
// when op returns, whatever happened.
func withStagingCopy(fs fileaccess.FileAccess, stagingDir string, imageDir string, imageName string, op func(copyDir string, copyName string) error) error {
	copyName := "temp_" + imageName

	err := fs.CopyObject(imageDir, imageName, stagingDir, copyName)
	if err != nil {
		return errors.Wrapf(err, "staging copy of %v", imageName)
	}
	defer fs.DeleteObject(stagingDir, copyName)

	return op(stagingDir, copyName)
}

// ExtractRecord - dynamic mode extraction: reads both tag namespaces,
// filters keys against the keyword list and normalizes values. Returns
// ErrNoMetadata if nothing survived.
func ExtractRecord(codec exifcodec.Codec, fs fileaccess.FileAccess, stagingDir string, imageDir string, imageName string) (thermModels.ImageRecord, error) {
	record := thermModels.ImageRecord{
		ImageName: imageName,
		Tags:      map[string]string{},
	}

	err := withStagingCopy(fs, stagingDir, imageDir, imageName, func(copyDir string, copyName string) error {
		copyPath := makePath(copyDir, copyName)

		exifTags, err := codec.ReadExif(copyPath)
		if err != nil {
			return err
		}
		xmpTags, err := codec.ReadXmp(copyPath)
		if err != nil {
			return err
		}

		for _, tags := range []exifcodec.TagMap{exifTags, xmpTags} {
			for key, value := range tags {
				if matchesKeyword(key) {
					record.Tags[key] = stripLeadingPlus(value)
				}
			}
		}
		return nil
	})

	if err != nil {
		return record, err
	}

	if !record.HasTags() {
		return record, ErrNoMetadata
	}
	return record, nil
}

// ExtractPositionRecord - coordinate-aware extraction producing the fixed
// position fields, with accuracy constants chosen by RTK fix presence
func ExtractPositionRecord(codec exifcodec.Codec, fs fileaccess.FileAccess, stagingDir string, imageDir string, imageName string) (thermModels.ImageRecord, error) {
	record := thermModels.ImageRecord{
		ImageName: imageName,
		Tags:      map[string]string{},
	}

	err := withStagingCopy(fs, stagingDir, imageDir, imageName, func(copyDir string, copyName string) error {
		xmpTags, err := codec.ReadXmp(makePath(copyDir, copyName))
		if err != nil {
			return err
		}

		horizontalAccuracy := stdHorizontalAccuracy
		verticalAccuracy := stdVerticalAccuracy
		if len(xmpTags[tagRtkStdLat]) > 0 {
			horizontalAccuracy = rtkHorizontalAccuracy
			verticalAccuracy = rtkVerticalAccuracy
		}

		record.Tags[ColLatitude] = processCoordinate(xmpTags[tagGpsLatitude], true)
		record.Tags[ColLongitude] = processCoordinate(xmpTags[tagGpsLongitude], false)
		record.Tags[ColAltitude] = stripLeadingPlus(xmpTags[tagAbsoluteAlt])
		record.Tags[ColYaw] = stripLeadingPlus(xmpTags[tagGimbalYaw])
		record.Tags[ColPitch] = stripLeadingPlus(xmpTags[tagGimbalPitch])
		record.Tags[ColRoll] = stripLeadingPlus(xmpTags[tagGimbalRoll])
		record.Tags[ColHorizAccuracy] = horizontalAccuracy
		record.Tags[ColVertAccuracy] = verticalAccuracy
		return nil
	})

	if err != nil {
		return record, err
	}

	// Accuracy fields are always set, so "no metadata" here means every
	// tag that came off the image itself is empty
	positionEmpty := true
	for _, col := range []string{ColLatitude, ColLongitude, ColAltitude, ColYaw, ColPitch, ColRoll} {
		if len(record.Tags[col]) > 0 {
			positionEmpty = false
			break
		}
	}
	if positionEmpty {
		return record, ErrNoMetadata
	}
	return record, nil
}

// ProcessFolder - extracts all JPGs in a folder and writes the table file.
// Per-image problems are counted, never propagated.
func ProcessFolder(folderPath string, mode Mode, codec exifcodec.Codec, fs fileaccess.FileAccess, stagingDir string, log logger.ILogger) (thermModels.ExtractStats, error) {
	stats := thermModels.ExtractStats{}

	files, err := fs.ListObjects(folderPath, "")
	if err != nil {
		return stats, errors.Wrapf(err, "listing %v", folderPath)
	}

	records := []thermModels.ImageRecord{}
	for _, fileName := range files {
		if !hasJpgExtension(fileName) {
			continue
		}

		var record thermModels.ImageRecord
		if mode == ModePosition {
			record, err = ExtractPositionRecord(codec, fs, stagingDir, folderPath, fileName)
		} else {
			record, err = ExtractRecord(codec, fs, stagingDir, folderPath, fileName)
		}

		if err != nil {
			if errors.Is(err, ErrNoMetadata) {
				log.Infof("No metadata found in %v, skipped", fileName)
				stats.Skipped++
			} else {
				log.Errorf("Failed to extract metadata from %v: %v", fileName, err)
				stats.Failed++
			}
			continue
		}

		records = append(records, record)
		stats.Extracted++
	}

	tablePath, err := WriteTable(fs, records, folderPath, mode)
	if err != nil {
		return stats, err
	}
	if len(tablePath) > 0 {
		log.Infof("Wrote %v", tablePath)
	}

	return stats, nil
}

func hasJpgExtension(fileName string) bool {
	lowered := strings.ToLower(fileName)
	return strings.HasSuffix(lowered, ".jpg") || strings.HasSuffix(lowered, ".jpeg")
}

func matchesKeyword(tagKey string) bool {
	lowered := strings.ToLower(tagKey)
	for _, keyword := range tagKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// The vendor writes non-negative numbers with an explicit sign, eg
// "+112.334". Strip it, but only when the remainder really is a number.
func stripLeadingPlus(value string) string {
	if strings.HasPrefix(value, "+") {
		if _, err := strconv.ParseFloat(value[1:], 64); err == nil {
			return value[1:]
		}
	}
	return value
}

// processCoordinate - range validates a GPS coordinate. Out-of-range or
// unparsable values become the empty string rather than an error.
func processCoordinate(value string, isLatitude bool) string {
	value = strings.TrimSpace(value)
	if len(value) <= 0 {
		return ""
	}

	coord, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ""
	}

	limit := 180.0
	if isLatitude {
		limit = 90.0
	}
	if coord < -limit || coord > limit {
		return ""
	}
	return value
}

func makePath(dir string, name string) string {
	return filepath.Join(dir, name)
}
