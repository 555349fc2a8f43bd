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

// Reading and writing of image tags across the two namespaces DJI captures
// use: the EXIF camera fields and the XMP extensible fields. Keys follow the
// dotted <Namespace>.<Group>.<Tag> convention, eg Exif.GPSInfo.GPSLatitude
// or Xmp.drone-dji.GpsLatitude.
package exifcodec

import "strings"

// TagMap - One namespace's tags for a single image
type TagMap map[string]string

// Dotted key prefixes for the EXIF sub-trees we care about
const (
	ExifImagePrefix     = "Exif.Image."
	ExifPhotoPrefix     = "Exif.Photo."
	ExifGPSPrefix       = "Exif.GPSInfo."
	ExifThumbnailPrefix = "Exif.Thumbnail."
	XmpDJIPrefix        = "Xmp.drone-dji."
)

// Codec - Tag read/write for one image file. Each call opens and closes the
// file, there is no retained handle between calls.
type Codec interface {
	ReadExif(path string) (TagMap, error)
	ReadXmp(path string) (TagMap, error)

	// Writes overwrite same-key tags on the destination and leave any other
	// tags it already has untouched
	WriteExif(path string, tags TagMap) error
	WriteXmp(path string, tags TagMap) error
}

// FilterSubTrees - Returns only the tags whose key starts with one of the
// given dotted prefixes. Used when narrowing a converted artifact's metadata
// down to positioning and thumbnail fields.
func FilterSubTrees(tags TagMap, prefixes ...string) TagMap {
	result := TagMap{}
	for key, value := range tags {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				result[key] = value
				break
			}
		}
	}
	return result
}
