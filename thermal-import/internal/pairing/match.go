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

// Associates files across directory roles by base name. The base name is
// the join key for the whole pipeline: original capture, measurement record
// and converted artifact all share it.
package pairing

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/thermal-import/internal/thermModels"
)

// BaseName - file name without directory or extension
func BaseName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// HasExtension - case-insensitive extension match against a list like
// [".jpg", ".jpeg"]
func HasExtension(fileName string, exts []string) bool {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	for _, ext := range exts {
		if fileExt == ext {
			return true
		}
	}
	return false
}

// MatchPairs - For every source file with one of srcExts, finds the
// destination file sharing its base name whose extension starts with
// dstExtPrefix (so ".tif" matches both .tif and .tiff). A source with no
// match is reported and omitted - it never fails the batch. If duplicate
// base names exist on the destination side the last one (in sorted order)
// wins.
func MatchPairs(fs fileaccess.FileAccess, srcDir string, dstDir string, srcExts []string, dstExtPrefix string, log logger.ILogger) ([]thermModels.FilePair, error) {
	srcFiles, err := fs.ListObjects(srcDir, "")
	if err != nil {
		return nil, errors.Wrapf(err, "listing %v", srcDir)
	}

	dstFiles, err := fs.ListObjects(dstDir, "")
	if err != nil {
		return nil, errors.Wrapf(err, "listing %v", dstDir)
	}

	dstByBase := map[string]string{}
	for _, dstName := range dstFiles {
		ext := strings.ToLower(filepath.Ext(dstName))
		if strings.HasPrefix(ext, dstExtPrefix) {
			dstByBase[BaseName(dstName)] = dstName
		}
	}

	pairs := []thermModels.FilePair{}
	for _, srcName := range srcFiles {
		if !HasExtension(srcName, srcExts) {
			continue
		}

		dstName, ok := dstByBase[BaseName(srcName)]
		if !ok {
			log.Infof("No matching destination file for %v", srcName)
			continue
		}

		pairs = append(pairs, thermModels.FilePair{
			SourcePath: filepath.Join(srcDir, srcName),
			DestPath:   filepath.Join(dstDir, dstName),
		})
	}

	return pairs, nil
}
