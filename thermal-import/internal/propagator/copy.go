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

// Copies normalized tag mappings from original captures onto their
// converted artifacts so photogrammetry tools see geotagged imagery.
package propagator

import (
	"github.com/pkg/errors"

	"github.com/skytherm/core/core/exifcodec"
	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/thermal-import/internal/pairing"
	"github.com/skytherm/core/thermal-import/internal/thermModels"
)

var sourceExtensions = []string{".jpg", ".jpeg"}

const destExtensionPrefix = ".tif"

// CopyTags - Reads both tag namespaces from the pair's source and writes
// each non-empty one onto the destination. Same-key tags on the destination
// are overwritten, anything else it carries stays as it was.
func CopyTags(pair thermModels.FilePair, codec exifcodec.Codec) error {
	exifTags, err := codec.ReadExif(pair.SourcePath)
	if err != nil {
		return errors.Wrapf(err, "reading exif from %v", pair.SourcePath)
	}

	xmpTags, err := codec.ReadXmp(pair.SourcePath)
	if err != nil {
		return errors.Wrapf(err, "reading xmp from %v", pair.SourcePath)
	}

	if len(exifTags) > 0 {
		if err = codec.WriteExif(pair.DestPath, exifTags); err != nil {
			return errors.Wrapf(err, "writing exif to %v", pair.DestPath)
		}
	}

	if len(xmpTags) > 0 {
		if err = codec.WriteXmp(pair.DestPath, xmpTags); err != nil {
			return errors.Wrapf(err, "writing xmp to %v", pair.DestPath)
		}
	}

	return nil
}

// ProcessFolder - Pairs originals in input_dir with artifacts in out_dir
// and copies metadata across each pair. A folder without both directories
// is structurally incomplete: it's skipped with a diagnostic and the batch
// carries on. One pair failing doesn't stop the rest.
func ProcessFolder(folderPath string, codec exifcodec.Codec, fs fileaccess.FileAccess, log logger.ILogger) (thermModels.PropagateStats, error) {
	stats := thermModels.PropagateStats{}
	layout := thermModels.MakeFolderLayout(folderPath)

	for _, dir := range []string{layout.InputDir, layout.OutputDir} {
		exists, err := fs.DirExists(dir)
		if err != nil {
			return stats, err
		}
		if !exists {
			return stats, errors.Errorf("%v does not exist", dir)
		}
	}

	pairs, err := pairing.MatchPairs(fs, layout.InputDir, layout.OutputDir, sourceExtensions, destExtensionPrefix, log)
	if err != nil {
		return stats, err
	}

	if len(pairs) <= 0 {
		log.Infof("No matching image pairs in %v", folderPath)
		return stats, nil
	}

	for _, pair := range pairs {
		err = CopyTags(pair, codec)
		if err != nil {
			log.Errorf("Metadata copy failed: %v", err)
			stats.Failed++
			continue
		}
		stats.Copied++
	}

	return stats, nil
}
