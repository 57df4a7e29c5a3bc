// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CaseFile is a document embedded in a case record.
//
// The content lives in FileData as a self-contained data URL
// ("data:<mime>;base64,<payload>"); there is no separate blob storage.
type CaseFile struct {
	ID         string `json:"id" validate:"required"`
	FileName   string `json:"fileName" validate:"required,notblank"`
	FileType   string `json:"fileType"`
	FileData   string `json:"fileData"`
	UploadedAt string `json:"uploadedAt"`
}

// FileUpload is a raw file picked by the user before it is encoded into a
// [CaseFile].
type FileUpload struct {
	FileName string
	FileType string
	Content  []byte
}

// FileRejection describes an upload that was refused. Other uploads of the
// same batch are not affected.
type FileRejection struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// AttachResult reports the outcome of attaching a batch of uploads.
type AttachResult struct {
	Attached []CaseFile      `json:"attached"`
	Rejected []FileRejection `json:"rejected"`
}
