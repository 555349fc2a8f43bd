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

package fileaccess

// Generic interface for the file operations the pipeline performs on the
// directory trees it manages. The pipeline deals exclusively in flat leaf
// folders, so listings are immediate-children only and deterministic
// (sorted), which is what keeps folder processing order repeatable between
// runs. Implemented against the local file system, but kept as an interface
// so tests (or a future remote store) can swap it out.

type FileAccess interface {
	// Immediate files within dirPath whose name starts with prefix, sorted.
	// Subdirectories are not descended into.
	ListObjects(dirPath string, prefix string) ([]string, error)

	// Immediate subdirectory names within dirPath, sorted
	ListSubdirs(dirPath string) ([]string, error)

	ReadObject(dirPath string, fileName string) ([]byte, error)
	WriteObject(dirPath string, fileName string, data []byte) error
	DeleteObject(dirPath string, fileName string) error

	CopyObject(srcDir string, srcName string, dstDir string, dstName string) error
	MoveObject(srcDir string, srcName string, dstDir string, dstName string) error

	ObjectExists(dirPath string, fileName string) (bool, error)
	DirExists(dirPath string) (bool, error)

	// Creates dirName under parentPath, deleting any existing directory of
	// the same name first. Destructive - callers rely on this to guarantee
	// a clean staging area even after an interrupted prior run.
	MakeEmptyDirectory(parentPath string, dirName string) (string, error)

	// Creates a uniquely named directory outside any tree the pipeline
	// manages, for work that must not touch the capture paths
	MakeTempDirectory(prefix string) (string, error)

	// Removes dirPath and everything under it. Not an error if it's already gone
	RemoveDirectory(dirPath string) error

	IsNotFoundError(err error) bool
}
