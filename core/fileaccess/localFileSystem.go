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

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Implementation of file access using local file system
type FSAccess struct {
}

func (fs *FSAccess) ListObjects(dirPath string, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	result := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(prefix) > 0 && !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		result = append(result, entry.Name())
	}

	sort.Strings(result)
	return result, nil
}

func (fs *FSAccess) ListSubdirs(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	result := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			result = append(result, entry.Name())
		}
	}

	sort.Strings(result)
	return result, nil
}

func (fs *FSAccess) ReadObject(dirPath string, fileName string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dirPath, fileName))
}

func (fs *FSAccess) WriteObject(dirPath string, fileName string, data []byte) error {
	// Ensure any subdirs in between are created
	err := os.MkdirAll(dirPath, 0777)
	if err != nil {
		return err
	}

	// Write the file out, this will create if needed else truncate and write
	return os.WriteFile(filepath.Join(dirPath, fileName), data, 0666)
}

func (fs *FSAccess) DeleteObject(dirPath string, fileName string) error {
	return os.Remove(filepath.Join(dirPath, fileName))
}

func (fs *FSAccess) CopyObject(srcDir string, srcName string, dstDir string, dstName string) error {
	fin, err := os.Open(filepath.Join(srcDir, srcName))
	if err != nil {
		return err
	}
	defer fin.Close()

	fout, err := os.Create(filepath.Join(dstDir, dstName))
	if err != nil {
		return err
	}
	defer fout.Close()

	_, err = io.Copy(fout, fin)
	return err
}

func (fs *FSAccess) MoveObject(srcDir string, srcName string, dstDir string, dstName string) error {
	srcPath := filepath.Join(srcDir, srcName)
	dstPath := filepath.Join(dstDir, dstName)

	err := os.Rename(srcPath, dstPath)
	if err == nil {
		return nil
	}

	// Rename fails across file systems, fall back to copy+delete
	err = fs.CopyObject(srcDir, srcName, dstDir, dstName)
	if err != nil {
		return err
	}
	return os.Remove(srcPath)
}

func (fs *FSAccess) ObjectExists(dirPath string, fileName string) (bool, error) {
	info, err := os.Stat(filepath.Join(dirPath, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (fs *FSAccess) DirExists(dirPath string) (bool, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (fs *FSAccess) MakeEmptyDirectory(parentPath string, dirName string) (string, error) {
	dirPath := filepath.Join(parentPath, dirName)

	err := os.RemoveAll(dirPath)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(dirPath, 0777)
	if err != nil {
		return "", err
	}
	return dirPath, nil
}

func (fs *FSAccess) MakeTempDirectory(prefix string) (string, error) {
	return os.MkdirTemp("", prefix)
}

func (fs *FSAccess) RemoveDirectory(dirPath string) error {
	return os.RemoveAll(dirPath)
}

func (fs *FSAccess) IsNotFoundError(err error) bool {
	return os.IsNotExist(err)
}
