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

// Data structures shared between the pipeline stages. There is no database
// behind any of this: the directory structure and file naming conventions
// carry all relationships, so these structs only live for one run.
package thermModels

import "path/filepath"

// Directory role names created inside each leaf folder
const (
	InputDirName   = "input_dir"
	OutputDirName  = "out_dir"
	StagingDirName = "temp_dir"
)

// ImageRecord - One source image's extracted metadata. Never mutated after
// creation, the table file is the durable form.
type ImageRecord struct {
	ImageName string
	Tags      map[string]string
}

// HasTags - A record with nothing beyond its name means "no metadata found"
// and must be dropped by the caller, never written to a table. A key whose
// value is empty still counts: the key survived filtering, and an empty
// cell in the table is information (field truly missing from the source).
func (r ImageRecord) HasTags() bool {
	return len(r.Tags) > 0
}

// FilePair - A source and destination file sharing a base name. Used both
// for raw->converted and metadata-copy stages.
type FilePair struct {
	SourcePath string
	DestPath   string
}

// RadiometricFrame - The converted artifact's payload: a row-major grid of
// temperatures in degrees C, dimensions exactly matching the source image
type RadiometricFrame struct {
	Width  int
	Height int
	Temps  []float32
}

// At - value at row r, column c
func (f *RadiometricFrame) At(r int, c int) float32 {
	return f.Temps[r*f.Width+c]
}

// FolderLayout - The three directory roles inside one leaf folder
type FolderLayout struct {
	FolderPath string
	InputDir   string
	OutputDir  string
	StagingDir string
}

func MakeFolderLayout(folderPath string) FolderLayout {
	return FolderLayout{
		FolderPath: folderPath,
		InputDir:   filepath.Join(folderPath, InputDirName),
		OutputDir:  filepath.Join(folderPath, OutputDirName),
		StagingDir: filepath.Join(folderPath, StagingDirName),
	}
}

// Per-stage result tallies. These are returned by value from each folder
// processing call and summed by the orchestrator - there is no shared
// mutable counter state anywhere.

type ExtractStats struct {
	Extracted int
	Skipped   int
	Failed    int
}

func (s *ExtractStats) Add(other ExtractStats) {
	s.Extracted += other.Extracted
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

type ConvertStats struct {
	Converted int
	Failed    int
}

func (s *ConvertStats) Add(other ConvertStats) {
	s.Converted += other.Converted
	s.Failed += other.Failed
}

type PropagateStats struct {
	Copied int
	Failed int
}

func (s *PropagateStats) Add(other PropagateStats) {
	s.Copied += other.Copied
	s.Failed += other.Failed
}

type RenameStats struct {
	Renamed int
	Skipped int
	Failed  int
}

func (s *RenameStats) Add(other RenameStats) {
	s.Renamed += other.Renamed
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

// PipelineStats - Aggregate over a whole run
type PipelineStats struct {
	FoldersProcessed int
	FoldersSkipped   int

	Extract   ExtractStats
	Convert   ConvertStats
	Propagate PropagateStats
}
