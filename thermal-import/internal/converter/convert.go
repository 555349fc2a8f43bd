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

// Turns raw thermal captures into calibrated temperature TIFFs. Each leaf
// folder is staged into input/output/staging roles, the vendor tool unpacks
// every capture into a raw sample dump, and the dump is reshaped against the
// original image's pixel dimensions before scaling to degrees C.
package converter

import (
	"encoding/binary"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/skytherm/core/core/exifcodec"
	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/core/utils"
	"github.com/skytherm/core/thermal-import/internal/pairing"
	"github.com/skytherm/core/thermal-import/internal/thermModels"
	"github.com/skytherm/core/thermal-import/internal/unpack"
)

// Image formats the converter will pick up from a folder root
var SupportedExtensions = []string{".jpg", ".jpeg", ".png"}

// OutputExtension - converted artifacts are float32 TIFFs
const OutputExtension = ".tiff"

// The vendor tool emits samples in tenths of a degree Celsius
const rawScaleDivisor = 10.0

// ReadRawFrame - Interprets a raw dump as little-endian signed 16-bit
// samples, reshaped to height rows by width columns and scaled to degrees.
// A buffer that doesn't match the expected pixel count is a shape mismatch
// and fails this file.
func ReadRawFrame(raw []byte, width int, height int) (*thermModels.RadiometricFrame, error) {
	expected := width * height * 2
	if len(raw) != expected {
		return nil, errors.Errorf("raw buffer is %v bytes, expected %v for %vx%v", len(raw), expected, width, height)
	}

	frame := &thermModels.RadiometricFrame{
		Width:  width,
		Height: height,
		Temps:  make([]float32, width*height),
	}

	for i := range frame.Temps {
		sample := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		frame.Temps[i] = float32(sample) / rawScaleDivisor
	}

	return frame, nil
}

// ProcessFolder - Converts every supported image in the folder root.
//
// The three role directories are deleted and recreated first: re-running
// against a folder where directories of those names already exist WILL
// destroy their contents. That guarantees a clean slate after an
// interrupted prior run, and callers are expected to warn their users.
//
// Per-file failures (tool exit, shape mismatch, unreadable image) are
// counted and the remaining files still convert. The staging directory is
// removed on the way out no matter which path got us there.
func ProcessFolder(folderPath string, unpacker unpack.RawUnpacker, codec exifcodec.Codec, fs fileaccess.FileAccess, log logger.ILogger) (thermModels.ConvertStats, error) {
	stats := thermModels.ConvertStats{}
	layout := thermModels.MakeFolderLayout(folderPath)

	// Stage
	for _, dirName := range []string{thermModels.InputDirName, thermModels.OutputDirName, thermModels.StagingDirName} {
		if _, err := fs.MakeEmptyDirectory(folderPath, dirName); err != nil {
			return stats, errors.Wrapf(err, "staging %v", folderPath)
		}
	}
	defer fs.RemoveDirectory(layout.StagingDir)

	// Relocate originals out of the folder root
	files, err := fs.ListObjects(folderPath, "")
	if err != nil {
		return stats, errors.Wrapf(err, "listing %v", folderPath)
	}

	moved := []string{}
	for _, fileName := range files {
		if !pairing.HasExtension(fileName, SupportedExtensions) {
			continue
		}
		err = fs.MoveObject(folderPath, fileName, layout.InputDir, fileName)
		if err != nil {
			return stats, errors.Wrapf(err, "moving %v", fileName)
		}
		moved = append(moved, fileName)
	}

	if len(moved) <= 0 {
		log.Infof("No images found in %v", folderPath)
		return stats, nil
	}

	for _, fileName := range moved {
		err = convertOne(layout, fileName, unpacker, codec, fs)
		if err != nil {
			log.Errorf("Conversion failed for %v: %v", fileName, err)
			stats.Failed++
			continue
		}
		stats.Converted++
	}

	return stats, nil
}

func convertOne(layout thermModels.FolderLayout, fileName string, unpacker unpack.RawUnpacker, codec exifcodec.Codec, fs fileaccess.FileAccess) error {
	base := pairing.BaseName(fileName)
	inputPath := filepath.Join(layout.InputDir, fileName)
	rawName := base + ".raw"
	outName := base + OutputExtension

	err := unpacker.Unpack(inputPath, unpack.ActionMeasure, filepath.Join(layout.StagingDir, rawName))
	if err != nil {
		return err
	}

	// Dimensions come from the original image, the raw dump is headerless
	width, height, err := utils.ReadImageDimensions(inputPath)
	if err != nil {
		return errors.Wrap(err, "reading image dimensions")
	}

	raw, err := fs.ReadObject(layout.StagingDir, rawName)
	if err != nil {
		return errors.Wrap(err, "reading raw dump")
	}

	frame, err := ReadRawFrame(raw, width, height)
	if err != nil {
		return err
	}

	err = fs.WriteObject(layout.OutputDir, outName, EncodeFloatFrame(frame))
	if err != nil {
		return errors.Wrap(err, "writing artifact")
	}

	// The artifact keeps only positioning and thumbnail metadata. Exposure
	// and camera-body fields describe the capture optics, which mean
	// nothing for a synthetic temperature grid, so they are dropped.
	exifTags, err := codec.ReadExif(inputPath)
	if err != nil {
		return errors.Wrap(err, "reading source tags")
	}

	narrowed := exifcodec.FilterSubTrees(exifTags, exifcodec.ExifGPSPrefix, exifcodec.ExifThumbnailPrefix)
	if len(narrowed) > 0 {
		err = codec.WriteExif(filepath.Join(layout.OutputDir, outName), narrowed)
		if err != nil {
			return errors.Wrap(err, "embedding tags")
		}
	}

	return nil
}
