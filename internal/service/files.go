// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/MKhiriev/go-case-keeper/internal/utils"
	"github.com/MKhiriev/go-case-keeper/models"
)

// Stored keys of an embedded case file.
const (
	fileKeyID         = "id"
	fileKeyName       = "fileName"
	fileKeyType       = "fileType"
	fileKeyData       = "fileData"
	fileKeyUploadedAt = "uploadedAt"
)

var fileIDs = utils.NewUUIDGenerator()

// NewCaseFile encodes upload as a data-URL [models.CaseFile]. When the upload
// carries no MIME type it is sniffed from the content. Uploads larger than
// limit bytes are refused with [ErrFileTooLarge]; a limit <= 0 disables the
// check.
func NewCaseFile(upload models.FileUpload, limit int64) (models.CaseFile, error) {
	return newCaseFile(upload, limit, fileIDs.Generate(), time.Now())
}

func newCaseFile(upload models.FileUpload, limit int64, id string, at time.Time) (models.CaseFile, error) {
	if limit > 0 && int64(len(upload.Content)) > limit {
		return models.CaseFile{}, fmt.Errorf("%w: %s exceeds the maximum size of %s",
			ErrFileTooLarge, upload.FileName, formatLimit(limit))
	}

	fileType := strings.TrimSpace(upload.FileType)
	if fileType == "" {
		fileType = mimetype.Detect(upload.Content).String()
	}
	// parameters such as charset are not kept
	fileType, _, _ = strings.Cut(fileType, ";")
	fileType = strings.TrimSpace(fileType)

	return models.CaseFile{
		ID:         id,
		FileName:   upload.FileName,
		FileType:   fileType,
		FileData:   "data:" + fileType + ";base64," + base64.StdEncoding.EncodeToString(upload.Content),
		UploadedAt: at.UTC().Format(TimestampLayout),
	}, nil
}

// formatLimit renders limit in the largest unit that divides it evenly.
func formatLimit(limit int64) string {
	switch {
	case limit >= 1<<20 && limit%(1<<20) == 0:
		return fmt.Sprintf("%dMB", limit>>20)
	case limit >= 1<<10 && limit%(1<<10) == 0:
		return fmt.Sprintf("%dKB", limit>>10)
	default:
		return fmt.Sprintf("%d bytes", limit)
	}
}

// DecodeFileData returns the bytes embedded in the data URL of f.
func DecodeFileData(f models.CaseFile) ([]byte, error) {
	_, payload, ok := strings.Cut(f.FileData, ";base64,")
	if !ok || !strings.HasPrefix(f.FileData, "data:") {
		return nil, fmt.Errorf("%w: %s is not a base64 data url", ErrInvalidInput, f.FileName)
	}
	return base64.StdEncoding.DecodeString(payload)
}

// encodeFiles converts files into the stored representation.
func encodeFiles(files []models.CaseFile) []any {
	out := make([]any, 0, len(files))
	for _, f := range files {
		out = append(out, map[string]any{
			fileKeyID:         f.ID,
			fileKeyName:       f.FileName,
			fileKeyType:       f.FileType,
			fileKeyData:       f.FileData,
			fileKeyUploadedAt: f.UploadedAt,
		})
	}
	return out
}

// decodeFiles reads a stored files value. Anything that is not a sequence
// yields an empty slice; malformed entries are skipped.
func decodeFiles(v any) []models.CaseFile {
	files := []models.CaseFile{}

	switch x := v.(type) {
	case []models.CaseFile:
		return append(files, x...)
	case []map[string]any:
		for _, m := range x {
			files = append(files, fileFromMap(m))
		}
	case []any:
		for _, item := range x {
			switch f := item.(type) {
			case models.CaseFile:
				files = append(files, f)
			case map[string]any:
				files = append(files, fileFromMap(f))
			}
		}
	}
	return files
}

func fileFromMap(m map[string]any) models.CaseFile {
	return models.CaseFile{
		ID:         coerceString(m[fileKeyID]),
		FileName:   coerceString(m[fileKeyName]),
		FileType:   coerceString(m[fileKeyType]),
		FileData:   coerceString(m[fileKeyData]),
		UploadedAt: coerceString(m[fileKeyUploadedAt]),
	}
}
