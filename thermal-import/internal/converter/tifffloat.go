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

package converter

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/skytherm/core/thermal-import/internal/thermModels"
)

// Temperature frames are stored as single-strip uncompressed greyscale TIFF
// with 32-bit IEEE floating point samples. Baseline TIFF libraries (and
// x/image/tiff) don't handle the floating point sample format, so the
// handful of tags involved are written and read here directly.

const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagSampleFormat    = 339

	typeShort = 3
	typeLong  = 4

	sampleFormatIEEEFP = 3

	tiffHeaderSize = 8
	ifdEntrySize   = 12
)

// EncodeFloatFrame - serializes a frame as a little-endian float32 TIFF
func EncodeFloatFrame(frame *thermModels.RadiometricFrame) []byte {
	dataLen := len(frame.Temps) * 4
	ifdOffset := tiffHeaderSize + dataLen

	entries := []struct {
		tag      uint16
		fieldTyp uint16
		value    uint32
	}{
		{tagImageWidth, typeLong, uint32(frame.Width)},
		{tagImageLength, typeLong, uint32(frame.Height)},
		{tagBitsPerSample, typeShort, 32},
		{tagCompression, typeShort, 1},
		{tagPhotometric, typeShort, 1},
		{tagStripOffsets, typeLong, tiffHeaderSize},
		{tagRowsPerStrip, typeLong, uint32(frame.Height)},
		{tagStripByteCounts, typeLong, uint32(dataLen)},
		{tagSampleFormat, typeShort, sampleFormatIEEEFP},
	}

	out := make([]byte, ifdOffset+2+len(entries)*ifdEntrySize+4)

	// Header: little endian marker, magic, IFD offset
	out[0] = 'I'
	out[1] = 'I'
	binary.LittleEndian.PutUint16(out[2:], 42)
	binary.LittleEndian.PutUint32(out[4:], uint32(ifdOffset))

	// Pixel data, row major
	for i, temp := range frame.Temps {
		binary.LittleEndian.PutUint32(out[tiffHeaderSize+i*4:], math.Float32bits(temp))
	}

	// IFD. Tags are already in ascending order as TIFF requires.
	binary.LittleEndian.PutUint16(out[ifdOffset:], uint16(len(entries)))
	pos := ifdOffset + 2
	for _, entry := range entries {
		binary.LittleEndian.PutUint16(out[pos:], entry.tag)
		binary.LittleEndian.PutUint16(out[pos+2:], entry.fieldTyp)
		binary.LittleEndian.PutUint32(out[pos+4:], 1)
		if entry.fieldTyp == typeShort {
			binary.LittleEndian.PutUint16(out[pos+8:], uint16(entry.value))
		} else {
			binary.LittleEndian.PutUint32(out[pos+8:], entry.value)
		}
		pos += ifdEntrySize
	}
	// Next-IFD offset of 0 terminates, already zeroed

	return out
}

// DecodeFloatFrame - reads back a TIFF written by EncodeFloatFrame. Only
// this package's own layout is supported; it exists for verification, not
// as a general TIFF reader.
func DecodeFloatFrame(data []byte) (*thermModels.RadiometricFrame, error) {
	if len(data) < tiffHeaderSize || data[0] != 'I' || data[1] != 'I' {
		return nil, errors.New("not a little-endian TIFF")
	}
	if binary.LittleEndian.Uint16(data[2:]) != 42 {
		return nil, errors.New("bad TIFF magic")
	}

	ifdOffset := int(binary.LittleEndian.Uint32(data[4:]))
	if ifdOffset+2 > len(data) {
		return nil, errors.New("IFD offset out of range")
	}

	entryCount := int(binary.LittleEndian.Uint16(data[ifdOffset:]))
	if ifdOffset+2+entryCount*ifdEntrySize > len(data) {
		return nil, errors.New("IFD truncated")
	}

	var width, height, stripOffset, stripLen, sampleFormat, bits int
	for i := 0; i < entryCount; i++ {
		pos := ifdOffset + 2 + i*ifdEntrySize
		tag := binary.LittleEndian.Uint16(data[pos:])
		fieldTyp := binary.LittleEndian.Uint16(data[pos+2:])

		value := int(binary.LittleEndian.Uint32(data[pos+8:]))
		if fieldTyp == typeShort {
			value = int(binary.LittleEndian.Uint16(data[pos+8:]))
		}

		switch tag {
		case tagImageWidth:
			width = value
		case tagImageLength:
			height = value
		case tagStripOffsets:
			stripOffset = value
		case tagStripByteCounts:
			stripLen = value
		case tagSampleFormat:
			sampleFormat = value
		case tagBitsPerSample:
			bits = value
		}
	}

	if sampleFormat != sampleFormatIEEEFP || bits != 32 {
		return nil, errors.Errorf("unsupported sample format %v/%v bits", sampleFormat, bits)
	}
	if stripLen != width*height*4 || stripOffset+stripLen > len(data) {
		return nil, errors.Errorf("strip size %v doesn't match %vx%v float32", stripLen, width, height)
	}

	frame := &thermModels.RadiometricFrame{
		Width:  width,
		Height: height,
		Temps:  make([]float32, width*height),
	}
	for i := range frame.Temps {
		frame.Temps[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[stripOffset+i*4:]))
	}
	return frame, nil
}
