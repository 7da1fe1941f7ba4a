package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Classified object-storage failures. Callers branch with errors.Is;
// ErrTransient marks failures worth retrying.
var (
	ErrNotFound     = errors.New("object storage: not found")
	ErrAccessDenied = errors.New("object storage: access denied")
	ErrConflict     = errors.New("object storage: conflict")
	ErrTransient    = errors.New("object storage: transient failure")
)

// classify maps SDK errors onto the package sentinels. Unrecognized
// errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket", "NoSuchKey", "NoSuchObject":
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable":
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"), strings.Contains(msg, "does not exist"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case strings.Contains(msg, "access denied"), strings.Contains(msg, "permission"):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "unreachable"):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}
