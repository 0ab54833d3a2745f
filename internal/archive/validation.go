package archive

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/szmslab/quickzip/internal/validation"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

func compressionNameList() []string {
	names := make([]string, 0, len(compressionNames))
	for _, level := range CompressionLevels() {
		names = append(names, level.String())
	}
	return names
}

func encryptionNameList() []string {
	names := []string{"no_encryption"}
	for _, method := range EncryptionMethods() {
		names = append(names, method.String())
	}
	return names
}

func ValidateCompressRequest(req CompressRequest) error {
	if req.Output == "" {
		return fmt.Errorf("%w: output is required", ErrInvalidRequest)
	}
	if err := validation.ValidateArchiveName(req.Output); err != nil {
		return fmt.Errorf("%w: output %s: %w", ErrInvalidRequest, req.Output, err)
	}

	if len(req.Paths) == 0 {
		return fmt.Errorf("%w: at least one path is required", ErrInvalidRequest)
	}
	if slices.Contains(req.Paths, "") {
		return fmt.Errorf("%w: paths must not be empty", ErrInvalidRequest)
	}

	if req.Compression != "" && !slices.Contains(compressionNameList(), normalizeName(req.Compression)) {
		return fmt.Errorf("%w: invalid compression %s, expected one of %s",
			ErrInvalidRequest, req.Compression, strings.Join(compressionNameList(), ", "))
	}

	if req.Encryption != "" && !slices.Contains(encryptionNameList(), normalizeName(req.Encryption)) {
		return fmt.Errorf("%w: invalid encryption %s, expected one of %s",
			ErrInvalidRequest, req.Encryption, strings.Join(encryptionNameList(), ", "))
	}

	return nil
}

func ValidateExtractRequest(req ExtractRequest) error {
	if req.Archive == "" {
		return fmt.Errorf("%w: archive is required", ErrInvalidRequest)
	}
	if req.Destination == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	return nil
}

func ValidateListRequest(req ListRequest) error {
	if req.Archive == "" {
		return fmt.Errorf("%w: archive is required", ErrInvalidRequest)
	}
	return nil
}
