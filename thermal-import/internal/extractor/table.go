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

package extractor

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/skytherm/core/core/fileaccess"
	"github.com/skytherm/core/thermal-import/internal/thermModels"
)

// Table file names per extraction mode
const (
	PositionTableFileName = "pos.txt"
	DynamicTableFileName  = "metadata.txt"
)

// Position table columns, in the order photogrammetry tools expect them.
// These are the vendor's Chinese field names: photo name, latitude,
// longitude, altitude, yaw, pitch, roll, horizontal/vertical accuracy.
const (
	ColImageName     = "照片名称"
	ColLatitude      = "纬度"
	ColLongitude     = "经度"
	ColAltitude      = "高度"
	ColYaw           = "Yaw"
	ColPitch         = "Pitch"
	ColRoll          = "Roll"
	ColHorizAccuracy = "水平精度"
	ColVertAccuracy  = "垂直精度"
)

// DynamicNameColumn - first column of the discovered-schema table
const DynamicNameColumn = "ImageName"

var positionColumns = []string{
	ColImageName,
	ColLatitude,
	ColLongitude,
	ColAltitude,
	ColYaw,
	ColPitch,
	ColRoll,
	ColHorizAccuracy,
	ColVertAccuracy,
}

// MakeDynamicColumns - The schema is discovered, not fixed: the name column
// followed by the sorted union of every tag key seen across the batch. Two
// folders can legitimately produce tables with different columns.
func MakeDynamicColumns(records []thermModels.ImageRecord) []string {
	keySet := map[string]bool{}
	for _, record := range records {
		for key := range record.Tags {
			keySet[key] = true
		}
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return append([]string{DynamicNameColumn}, keys...)
}

// RenderTable - Renders records against a frozen column list. Cells with no
// value render as the empty string - a truly missing field, not an error.
// Embedded separators in tag values are NOT escaped; this is a known
// limitation of the table format, kept for compatibility with its consumers.
func RenderTable(columns []string, records []thermModels.ImageRecord) string {
	var sb strings.Builder

	sb.WriteString(strings.Join(columns, ","))
	sb.WriteString("\n")

	for _, record := range records {
		cells := make([]string, len(columns))
		cells[0] = record.ImageName
		for i := 1; i < len(columns); i++ {
			cells[i] = record.Tags[columns[i]]
		}
		sb.WriteString(strings.Join(cells, ","))
		sb.WriteString("\n")
	}

	return sb.String()
}

// WriteTable - Serializes the folder's records as UTF-8 comma-delimited
// text next to the images. Writes nothing if there are no records, and
// returns the written path (empty if nothing was written).
//
// Two-pass on purpose: all records must be known before the header can be
// derived, so rows are never streamed against an evolving schema.
func WriteTable(fs fileaccess.FileAccess, records []thermModels.ImageRecord, folderPath string, mode Mode) (string, error) {
	if len(records) <= 0 {
		return "", nil
	}

	columns := positionColumns
	fileName := PositionTableFileName
	if mode == ModeDynamic {
		columns = MakeDynamicColumns(records)
		fileName = DynamicTableFileName
	}

	text := RenderTable(columns, records)

	err := fs.WriteObject(folderPath, fileName, []byte(text))
	if err != nil {
		return "", err
	}

	return filepath.Join(folderPath, fileName), nil
}
