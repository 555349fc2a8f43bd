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

// Wraps the vendor's thermal SDK tool which decodes the proprietary capture
// format inside a thermal JPG into a flat grid of signed 16-bit samples.
// The tool is opaque to us: a non-zero exit is its only failure signal.
package unpack

import (
	"bytes"
	"os/exec"

	"github.com/pkg/errors"
)

// ActionMeasure - Decode to temperature-proportional samples, which is the
// only action the pipeline uses
const ActionMeasure = "measure"

// RawUnpacker - raw image bytes in, fixed-size sample grid file out
type RawUnpacker interface {
	Unpack(srcPath string, action string, rawOutPath string) error
}

// DJIThermalTool - Runs the dji_irp utility from the DJI Thermal SDK
type DJIThermalTool struct {
	ExePath string
}

func (t *DJIThermalTool) Unpack(srcPath string, action string, rawOutPath string) error {
	cmd := exec.Command(t.ExePath, "-s", srcPath, "-a", action, "-o", rawOutPath)

	// The tool is chatty on stdout, we only keep stderr for diagnostics
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return errors.Wrapf(err, "dji_irp failed for %v: %v", srcPath, stderrTail(stderr))
	}
	return nil
}

func stderrTail(buf bytes.Buffer) string {
	const maxLen = 400
	s := buf.String()
	if len(s) > maxLen {
		s = s[len(s)-maxLen:]
	}
	return s
}
