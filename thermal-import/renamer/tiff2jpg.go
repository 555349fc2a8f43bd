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
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/thermal-import/internal/pairing"
	"github.com/skytherm/core/thermal-import/internal/thermModels"
)

// Photogrammetry importers reject .tiff but accept the same bytes as
// .jpg, so only the extension changes. File contents are untouched.
const (
	tiffExtension = ".tiff"
	jpgExtension  = ".jpg"
)

// RenameTiffOutputs renames every .tiff file in the out_dir of each
// folder beneath rootDir to .jpg. Folders without an out_dir are passed
// over silently.
func RenameTiffOutputs(rootDir string, fs fileaccess.FileAccess, log logger.ILogger) (thermModels.RenameStats, error) {
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
		outDir := filepath.Join(folder, thermModels.OutputDirName)
		exists, err := fs.DirExists(outDir)
		if err != nil || !exists {
			continue
		}

		stats.Add(renameOutputDir(outDir, fs, log))
	}

	return stats, nil
}

func renameOutputDir(outDir string, fs fileaccess.FileAccess, log logger.ILogger) thermModels.RenameStats {
	stats := thermModels.RenameStats{}

	files, err := fs.ListObjects(outDir, "")
	if err != nil {
		log.Errorf("Failed to list %v: %v", outDir, err)
		return stats
	}

	for _, fileName := range files {
		if strings.ToLower(filepath.Ext(fileName)) != tiffExtension {
			continue
		}

		newName := pairing.BaseName(fileName) + jpgExtension
		if err := fs.MoveObject(outDir, fileName, outDir, newName); err != nil {
			log.Errorf("Failed to rename %v: %v", fileName, err)
			stats.Failed++
			continue
		}

		log.Debugf("Renamed %v -> %v", fileName, newName)
		stats.Renamed++
	}

	return stats
}
