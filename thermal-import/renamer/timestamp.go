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

// Standalone filename utilities that run outside the conversion pipeline.
// The timestamp renamer stamps the capture time into capture filenames so
// images sort chronologically, the tiff-to-jpg renamer swaps artifact
// extensions for photogrammetry tools that only accept .jpg inputs.
package renamer

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/thermal-import/internal/pairing"
	"github.com/skytherm/core/thermal-import/internal/thermModels"
)

const (
	exifTimeLayout  = "2006:01:02 15:04:05"
	stampTimeLayout = "20060102150405"

	// Filenames with fewer underscore-separated segments than this are
	// left alone, they don't follow the DJI_<seq>_<frame> capture scheme
	minNameSegments = 3
)

var renameExtensions = []string{".jpg", ".jpeg"}

// CaptureTimeReader returns the capture timestamp tag of an image as the
// raw colon-separated string stored in its metadata
type CaptureTimeReader func(imagePath string) (string, error)

// ExifCaptureTime reads DateTimeOriginal from the image's EXIF block
func ExifCaptureTime(imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	meta, err := exif.Decode(f)
	if err != nil {
		return "", errors.Wrapf(err, "decoding metadata of %v", filepath.Base(imagePath))
	}

	tag, err := meta.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", errors.Wrapf(err, "%v has no capture timestamp", filepath.Base(imagePath))
	}

	return tag.StringVal()
}

// FormatTimestamp converts "2025:02:01 14:30:22" to the compact digit
// form "20250201143022" used inside filenames
func FormatTimestamp(exifDate string) (string, error) {
	t, err := time.Parse(exifTimeLayout, exifDate)
	if err != nil {
		return "", errors.Wrapf(err, "unparsable capture timestamp %v", exifDate)
	}
	return t.Format(stampTimeLayout), nil
}

// TimestampedName inserts the timestamp as the second underscore-separated
// segment of the name, so DJI_0001_001.JPG becomes
// DJI_20250201143022_0001_001.JPG. Returns ok=false if the name has too
// few segments to qualify. A name that already carries the timestamp in
// the second slot is returned unchanged, which makes the operation
// idempotent for the caller.
func TimestampedName(fileName string, timestamp string) (string, bool) {
	ext := filepath.Ext(fileName)
	parts := strings.Split(strings.TrimSuffix(fileName, ext), "_")
	if len(parts) < minNameSegments {
		return "", false
	}

	if parts[1] == timestamp {
		return fileName, true
	}

	stamped := append([]string{parts[0], timestamp}, parts[1:]...)
	return strings.Join(stamped, "_") + ext, true
}

// TimestampRenamer renames capture images in place, one folder at a time
type TimestampRenamer struct {
	ReadCaptureTime CaptureTimeReader
}

func NewTimestampRenamer() *TimestampRenamer {
	return &TimestampRenamer{ReadCaptureTime: ExifCaptureTime}
}

// renameOne returns the new file name, or "" if the file was skipped
func (r *TimestampRenamer) renameOne(fs fileaccess.FileAccess, dirPath string, fileName string, log logger.ILogger) (string, error) {
	exifDate, err := r.ReadCaptureTime(filepath.Join(dirPath, fileName))
	if err != nil {
		log.Infof("Skipping %v: %v", fileName, err)
		return "", nil
	}

	timestamp, err := FormatTimestamp(exifDate)
	if err != nil {
		log.Infof("Skipping %v: %v", fileName, err)
		return "", nil
	}

	newName, ok := TimestampedName(fileName, timestamp)
	if !ok || newName == fileName {
		return "", nil
	}

	if err = fs.MoveObject(dirPath, fileName, dirPath, newName); err != nil {
		return "", errors.Wrapf(err, "renaming %v", fileName)
	}
	return newName, nil
}

// ProcessFolder renames every jpg image directly inside folderPath
func (r *TimestampRenamer) ProcessFolder(folderPath string, fs fileaccess.FileAccess, log logger.ILogger) thermModels.RenameStats {
	stats := thermModels.RenameStats{}

	files, err := fs.ListObjects(folderPath, "")
	if err != nil {
		log.Errorf("Failed to list %v: %v", folderPath, err)
		return stats
	}

	for _, fileName := range files {
		if !pairing.HasExtension(fileName, renameExtensions) {
			continue
		}

		newName, err := r.renameOne(fs, folderPath, fileName, log)
		if err != nil {
			log.Errorf("Failed to rename %v: %v", fileName, err)
			stats.Failed++
		} else if newName == "" {
			stats.Skipped++
		} else {
			log.Debugf("Renamed %v -> %v", fileName, newName)
			stats.Renamed++
		}
	}

	return stats
}

// ProcessTree walks every directory beneath rootDir (depth-first, sorted)
// and renames the images it finds. The root must exist, that is the only
// fatal condition.
func (r *TimestampRenamer) ProcessTree(rootDir string, fs fileaccess.FileAccess, log logger.ILogger) (thermModels.RenameStats, error) {
	stats := thermModels.RenameStats{}

	exists, err := fs.DirExists(rootDir)
	if err != nil {
		return stats, err
	}
	if !exists {
		return stats, errors.Errorf("root directory does not exist: %v", rootDir)
	}

	folders, err := listTree(fs, rootDir)
	if err != nil {
		return stats, err
	}

	for _, folder := range folders {
		log.Infof("Processing folder: %v", folder)
		stats.Add(r.ProcessFolder(folder, fs, log))
	}

	return stats, nil
}

// listTree - rootDir and all directories beneath it, in sorted walk order
func listTree(fs fileaccess.FileAccess, rootDir string) ([]string, error) {
	folders := []string{rootDir}

	subdirs, err := fs.ListSubdirs(rootDir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %v", rootDir)
	}

	for _, subdir := range subdirs {
		children, err := listTree(fs, filepath.Join(rootDir, subdir))
		if err != nil {
			return nil, err
		}
		folders = append(folders, children...)
	}

	return folders, nil
}
