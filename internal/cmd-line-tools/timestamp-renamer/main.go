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

	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/core/logger"
	"github.com/skytherm/core/thermal-import/renamer"
)

func main() {
	fmt.Println("=====================================")
	fmt.Println("=  SkyTherm capture time renamer    =")
	fmt.Println("=====================================")

	var argDir = flag.String("d", "main", "Root directory containing capture folders")
	var argDebug = flag.Bool("debug", false, "Per-file debug logging")

	flag.Parse()

	ilog := &logger.StdOutLogger{}
	if *argDebug {
		ilog.SetLogLevel(logger.LogDebug)
	}

	r := renamer.NewTimestampRenamer()
	stats, err := r.ProcessTree(*argDir, &fileaccess.FSAccess{}, ilog)
	if err != nil {
		log.Fatalf("Rename failed: %v", err)
	}

	fmt.Println("\nDone!")
	fmt.Printf("Renamed: %v, skipped: %v, failed: %v\n", stats.Renamed, stats.Skipped, stats.Failed)
}
