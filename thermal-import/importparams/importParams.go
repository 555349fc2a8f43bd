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

package importparams

import (
	"github.com/pkg/errors"

	"github.com/skytherm/core/thermal-import/internal/extractor"
)

// Extraction mode values accepted in ExtractMode
const (
	ExtractModePosition = string(extractor.ModePosition)
	ExtractModeDynamic  = string(extractor.ModeDynamic)
)

// Everything a pipeline run needs. Can be filled from CLI flags or read
// from a JSON file in batch setups.
type ThermalImportParams struct {
	RootDir      string `json:"rootdir"`      // Directory whose immediate subfolders each hold one flight's captures
	ExtractMode  string `json:"extractmode"`  // "position" for the fixed pos.txt schema, "dynamic" for the discovered metadata.txt schema
	ExifToolPath string `json:"exiftoolpath"` // exiftool executable, used for all tag reads/writes
	DJIToolPath  string `json:"djitoolpath"`  // dji_irp executable from the DJI Thermal SDK, unpacks raw sample buffers
	LogDebug     bool   `json:"logdebug"`     // Per-file debug logging, off by default because batches are large
}

func (p *ThermalImportParams) Validate() error {
	if p.RootDir == "" {
		return errors.New("no root directory specified")
	}
	if p.ExifToolPath == "" {
		return errors.New("no exiftool path specified")
	}
	if p.DJIToolPath == "" {
		return errors.New("no DJI thermal tool path specified")
	}

	mode := extractor.Mode(p.ExtractMode)
	if mode != extractor.ModePosition && mode != extractor.ModeDynamic {
		return errors.Errorf("invalid extract mode: %v", p.ExtractMode)
	}
	return nil
}
