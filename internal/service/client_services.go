// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-case-keeper/internal/adapter"
	"github.com/MKhiriev/go-case-keeper/internal/config"
	"github.com/MKhiriev/go-case-keeper/internal/logger"
	"github.com/MKhiriev/go-case-keeper/internal/validators"
)

// ClientServices groups the services used by the view layer.
type ClientServices struct {
	CaseService ClientCaseService
	AuthService ClientAuthService
	SyncJob     ClientSyncJob

	// Book is the live view of the signed-in user's cases.
	Book *CaseBook
}

func NewClientServices(adapters *adapter.ClientAdapters, cfg config.ClientApp, logger *logger.Logger) *ClientServices {
	validator := validators.NewCaseValidator()
	book := NewCaseBook(nil)
	syncJob := NewClientSyncJob(adapters.RecordStore, book, logger)

	return &ClientServices{
		CaseService: NewClientCaseService(adapters.RecordStore, validator, cfg.MaxFileSizeBytes, logger),
		AuthService: NewClientAuthService(adapters.IdentityProvider, syncJob, validator, logger),
		SyncJob:     syncJob,
		Book:        book,
	}
}
