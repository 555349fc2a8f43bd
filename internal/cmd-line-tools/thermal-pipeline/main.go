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

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/skytherm/core/core/exifcodec"
	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/thermal-import/importer"
	"github.com/skytherm/core/thermal-import/importparams"
)

func main() {
	fmt.Println("===================================")
	fmt.Println("=  SkyTherm thermal image import  =")
	fmt.Println("===================================")

	var argDir = flag.String("d", "main", "Root directory containing capture folders")
	var argMode = flag.String("mode", importparams.ExtractModePosition, "Extraction mode: position, dynamic")
	var argExifTool = flag.String("exiftool", "exiftool", "Path to exiftool executable")
	var argDJITool = flag.String("dji-irp", "dji_irp", "Path to DJI Thermal SDK dji_irp executable")
	var argDebug = flag.Bool("debug", false, "Per-file debug logging")

	flag.Parse()

	params := importparams.ThermalImportParams{
		RootDir:      *argDir,
		ExtractMode:  *argMode,
		ExifToolPath: *argExifTool,
		DJIToolPath:  *argDJITool,
		LogDebug:     *argDebug,
	}

	if err := params.Validate(); err != nil {
		log.Fatalf("Invalid parameters: %v", err)
	}

	ilog := &logger.StdOutLogger{}
	if params.LogDebug {
		ilog.SetLogLevel(logger.LogDebug)
	}

	codec, err := exifcodec.NewExifToolCodec(params.ExifToolPath)
	if err != nil {
		log.Fatalf("Failed to start exiftool: %v", err)
	}
	defer codec.Close()

	unpacker := importer.MakeDJIUnpacker(params.DJIToolPath)

	stats, err := importer.RunPipeline(params, unpacker, codec, &fileaccess.FSAccess{}, ilog)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	fmt.Println("\nDone!")
	fmt.Printf("Folders processed: %v, skipped: %v\n", stats.FoldersProcessed, stats.FoldersSkipped)
	fmt.Printf("Metadata extracted: %v, skipped: %v, failed: %v\n", stats.Extract.Extracted, stats.Extract.Skipped, stats.Extract.Failed)
	fmt.Printf("Images converted: %v, failed: %v\n", stats.Convert.Converted, stats.Convert.Failed)
	fmt.Printf("Metadata copied: %v, failed: %v\n", stats.Propagate.Copied, stats.Propagate.Failed)
}
