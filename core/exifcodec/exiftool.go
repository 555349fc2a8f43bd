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

package exifcodec

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Printed by the tool to stdout when a command completes. We also have it
// echoed to stderr per command so both streams drain to a known boundary.
const readyMarker = "{ready}"

// ExifToolCodec - Codec backed by a persistent exiftool process running in
// stay-open mode, so a long batch doesn't pay process startup per image.
// Not safe for concurrent use, matching the strictly sequential pipeline.
type ExifToolCodec struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	stderr *bufio.Scanner
}

// NewExifToolCodec - starts exiftool in stay-open mode. exePath is the
// binary to run, pass "exiftool" to find it on PATH.
func NewExifToolCodec(exePath string) (*ExifToolCodec, error) {
	cmd := exec.Command(exePath, "-stay_open", "True", "-@", "-")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdin pipe")
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdout pipe")
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "starting exiftool")
	}

	return &ExifToolCodec{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewScanner(stdout),
		stderr: bufio.NewScanner(stderr),
	}, nil
}

// execute - sends one command to the running process and reads both streams
// up to the {ready} markers. An "Error:" line on stderr fails the command,
// the tool exits zero in stay-open mode even when a file couldn't be read.
func (c *ExifToolCodec) execute(args ...string) (string, error) {
	for _, arg := range args {
		if _, err := fmt.Fprintln(c.stdin, arg); err != nil {
			return "", errors.Wrapf(err, "writing arg %q", arg)
		}
	}

	// -echo4 makes the tool echo the marker to stderr once this command
	// has finished, stdout gets its marker from -execute itself
	for _, arg := range []string{"-echo4", readyMarker, "-execute"} {
		if _, err := fmt.Fprintln(c.stdin, arg); err != nil {
			return "", errors.Wrapf(err, "writing %v", arg)
		}
	}

	output, err := drainToMarker(c.stdout)
	if err != nil {
		return "", errors.Wrap(err, "reading output")
	}

	errOutput, err := drainToMarker(c.stderr)
	if err != nil {
		return "", errors.Wrap(err, "reading error output")
	}

	if toolErr := firstErrorLine(errOutput); len(toolErr) > 0 {
		return output, errors.New(toolErr)
	}

	return output, nil
}

func drainToMarker(stream *bufio.Scanner) (string, error) {
	var output strings.Builder
	for stream.Scan() {
		line := stream.Text()
		if strings.HasPrefix(line, readyMarker) {
			return output.String(), nil
		}
		output.WriteString(line)
		output.WriteString("\n")
	}

	if err := stream.Err(); err != nil {
		return "", err
	}
	return "", errors.New("tool exited before the command completed")
}

// Warnings are routine on vendor imagery and don't fail a command, only
// lines the tool flags as errors do
func firstErrorLine(errOutput string) string {
	for _, line := range strings.Split(errOutput, "\n") {
		if strings.HasPrefix(line, "Error") {
			return line
		}
	}
	return ""
}

func (c *ExifToolCodec) ReadExif(path string) (TagMap, error) {
	out, err := c.execute("-G1", "-s", "-n", "-EXIF:All", path)
	if err != nil {
		return nil, err
	}
	return parseGroupedOutput(out), nil
}

func (c *ExifToolCodec) ReadXmp(path string) (TagMap, error) {
	out, err := c.execute("-G1", "-s", "-n", "-XMP:All", path)
	if err != nil {
		return nil, err
	}
	return parseGroupedOutput(out), nil
}

func (c *ExifToolCodec) WriteExif(path string, tags TagMap) error {
	return c.writeTags(path, tags)
}

func (c *ExifToolCodec) WriteXmp(path string, tags TagMap) error {
	return c.writeTags(path, tags)
}

func (c *ExifToolCodec) writeTags(path string, tags TagMap) error {
	if len(tags) <= 0 {
		return nil
	}

	args := []string{"-n", "-overwrite_original"}

	// Sorted so the command stream is deterministic
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		toolTag, ok := dottedKeyToToolTag(key)
		if !ok {
			// Not a key shape we can hand to the tool, skip rather than
			// poison the whole write
			continue
		}
		args = append(args, fmt.Sprintf("-%v=%v", toolTag, tags[key]))
	}

	args = append(args, path)

	out, err := c.execute(args...)
	if err != nil {
		return err
	}
	if strings.Contains(out, "0 image files updated") {
		return errors.Errorf("tag write rejected for %v", path)
	}
	return nil
}

// Close - shuts the stay-open process down cleanly
func (c *ExifToolCodec) Close() error {
	if _, err := fmt.Fprintln(c.stdin, "-stay_open"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(c.stdin, "False"); err != nil {
		return err
	}
	if err := c.stdin.Close(); err != nil {
		return err
	}
	return c.cmd.Wait()
}

// Family-1 group names exiftool prints vs our dotted namespaces
var groupToNamespace = map[string]string{
	"IFD0":       "Exif.Image",
	"ExifIFD":    "Exif.Photo",
	"GPS":        "Exif.GPSInfo",
	"IFD1":       "Exif.Thumbnail",
	"InteropIFD": "Exif.Iop",
}

// parseGroupedOutput - parses "-G1 -s" style listing output, eg:
//
//	[GPS]           GPSLatitude                     : 31.5
//	[XMP-drone-dji] AbsoluteAltitude                : +112.334
//
// into a TagMap with dotted keys.
func parseGroupedOutput(out string) TagMap {
	result := TagMap{}

	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "[") {
			continue
		}

		closeIdx := strings.Index(line, "]")
		if closeIdx < 0 {
			continue
		}

		group := line[1:closeIdx]
		rest := line[closeIdx+1:]

		sepIdx := strings.Index(rest, ":")
		if sepIdx < 0 {
			continue
		}

		tag := strings.TrimSpace(rest[:sepIdx])
		value := strings.TrimSpace(rest[sepIdx+1:])
		if len(tag) <= 0 {
			continue
		}

		namespace, ok := groupToNamespace[group]
		if !ok {
			if strings.HasPrefix(group, "XMP-") {
				namespace = "Xmp." + group[len("XMP-"):]
			} else {
				continue
			}
		}

		result[namespace+"."+tag] = value
	}

	return result
}

// dottedKeyToToolTag - inverse of the grouping above, turning eg
// Exif.GPSInfo.GPSLatitude into GPS:GPSLatitude for a write command
func dottedKeyToToolTag(key string) (string, bool) {
	lastDot := strings.LastIndex(key, ".")
	if lastDot < 0 || lastDot >= len(key)-1 {
		return "", false
	}

	namespace := key[:lastDot]
	tag := key[lastDot+1:]

	for group, ns := range groupToNamespace {
		if ns == namespace {
			return group + ":" + tag, true
		}
	}

	if strings.HasPrefix(namespace, "Xmp.") {
		return "XMP-" + namespace[len("Xmp."):] + ":" + tag, true
	}

	return "", false
}
