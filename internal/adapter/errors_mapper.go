// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapStoreError translates Firestore (gRPC status) and MongoDB driver errors
// into the sentinels of this package. Unknown errors are returned unchanged.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	for _, known := range []error{ErrRecordNotFound, ErrPermissionDenied, ErrStoreUnavailable} {
		if errors.Is(err, known) {
			return err
		}
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	default:
		return err
	}
}

// identityErrorBody is the error envelope of the Identity Toolkit REST API.
type identityErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// mapIdentityError translates an Identity Toolkit error response into the
// sentinels of this package. Returns nil for 2xx responses.
func mapIdentityError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	var body identityErrorBody
	_ = json.Unmarshal(resp.Body(), &body)

	// messages look like "WEAK_PASSWORD : Password should be at least 6 characters"
	code, detail, _ := strings.Cut(body.Error.Message, ":")
	code = strings.TrimSpace(code)
	detail = strings.TrimSpace(detail)
	if code == "" {
		code = strings.TrimSpace(string(resp.Body()))
	}

	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, code)
	case "EMAIL_EXISTS":
		return fmt.Errorf("%w: %s", ErrEmailExists, code)
	case "WEAK_PASSWORD":
		if detail == "" {
			detail = code
		}
		return fmt.Errorf("%w: %s", ErrWeakPassword, detail)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return fmt.Errorf("%w: %s", ErrTooManyAttempts, code)
	case "USER_DISABLED":
		return fmt.Errorf("%w: %s", ErrUserDisabled, code)
	case "INVALID_IDP_RESPONSE", "INVALID_ID_TOKEN", "TOKEN_EXPIRED":
		return fmt.Errorf("%w: %s", ErrInvalidToken, code)
	}

	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d", ErrIdentityUnavailable, resp.StatusCode())
	}
	if code == "" {
		code = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), code)
}
