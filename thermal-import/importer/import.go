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

// Runs the full metadata extraction, radiometric conversion and metadata
// propagation sequence over every capture folder beneath a root directory.
// Each immediate subfolder of the root is treated as one flight's worth of
// captures and processed independently. A folder that fails structurally
// is skipped, the batch always continues to the next folder.
package importer

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/skytherm/core/core/exifcodec"
	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/thermal-import/importparams"
	"github.com/skytherm/core/thermal-import/internal/converter"
	"github.com/skytherm/core/thermal-import/internal/extractor"
	"github.com/skytherm/core/thermal-import/internal/propagator"
	"github.com/skytherm/core/thermal-import/internal/thermModels"
	"github.com/skytherm/core/thermal-import/internal/unpack"
)

// MakeDJIUnpacker - the production raw unpacker, wrapping the DJI Thermal
// SDK's dji_irp executable
func MakeDJIUnpacker(exePath string) unpack.RawUnpacker {
	return &unpack.DJIThermalTool{ExePath: exePath}
}

// RunPipeline processes every subfolder of params.RootDir. A missing root
// is the only fatal condition, everything narrower becomes a counter.
func RunPipeline(params importparams.ThermalImportParams, unpacker unpack.RawUnpacker, codec exifcodec.Codec, fs fileaccess.FileAccess, log logger.ILogger) (thermModels.PipelineStats, error) {
	stats := thermModels.PipelineStats{}

	exists, err := fs.DirExists(params.RootDir)
	if err != nil {
		return stats, err
	}
	if !exists {
		return stats, errors.Errorf("root directory does not exist: %v", params.RootDir)
	}

	folders, err := fs.ListSubdirs(params.RootDir)
	if err != nil {
		return stats, errors.Wrapf(err, "listing %v", params.RootDir)
	}
	if len(folders) == 0 {
		log.Infof("No capture folders found in %v", params.RootDir)
		return stats, nil
	}

	log.Infof("Found %v capture folders in %v", len(folders), params.RootDir)

	// Extraction stages its tag reads through a directory outside the
	// capture tree entirely: capture folders are routinely named in Chinese
	// and the codec can't be handed those paths
	stagingDir, err := fs.MakeTempDirectory("thermal-extract-")
	if err != nil {
		return stats, errors.Wrap(err, "creating staging directory")
	}
	defer fs.RemoveDirectory(stagingDir)

	for _, folder := range folders {
		folderPath := filepath.Join(params.RootDir, folder)
		log.Infof("Processing folder: %v", folder)

		if err := processFolder(folderPath, extractor.Mode(params.ExtractMode), stagingDir, unpacker, codec, fs, log, &stats); err != nil {
			log.Errorf("Skipping folder %v: %v", folder, err)
			stats.FoldersSkipped++
		} else {
			stats.FoldersProcessed++
		}
	}

	log.Infof("Processed %v folders, skipped %v", stats.FoldersProcessed, stats.FoldersSkipped)
	log.Infof("Extracted %v, converted %v, propagated %v", stats.Extract.Extracted, stats.Convert.Converted, stats.Propagate.Copied)
	return stats, nil
}

// processFolder runs the three stages on one capture folder, accumulating
// stage counters into stats. stagingDir receives extraction's temporary
// image copies and belongs to the whole run, the per-folder temp_dir is
// conversion's raw dump area only.
func processFolder(folderPath string, mode extractor.Mode, stagingDir string, unpacker unpack.RawUnpacker, codec exifcodec.Codec, fs fileaccess.FileAccess, log logger.ILogger, stats *thermModels.PipelineStats) error {
	extractStats, err := extractor.ProcessFolder(folderPath, mode, codec, fs, stagingDir, log)
	if err != nil {
		return err
	}
	stats.Extract.Add(extractStats)

	convertStats, err := converter.ProcessFolder(folderPath, unpacker, codec, fs, log)
	if err != nil {
		return err
	}
	stats.Convert.Add(convertStats)

	propagateStats, err := propagator.ProcessFolder(folderPath, codec, fs, log)
	if err != nil {
		return err
	}
	stats.Propagate.Add(propagateStats)

	return nil
}
