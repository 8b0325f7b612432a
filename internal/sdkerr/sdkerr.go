package sdkerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure in the fetch-and-materialize pipeline.
type Kind int

const (
	KindUnknown Kind = iota
	TransportFailure
	DecompressionFailure
	ConfigurationMissing
	FilesystemFailure
	UnsupportedPlatform
)

func (k Kind) String() string {
	switch k {
	case TransportFailure:
		return "transport failure"
	case DecompressionFailure:
		return "decompression failure"
	case ConfigurationMissing:
		return "configuration missing"
	case FilesystemFailure:
		return "filesystem failure"
	case UnsupportedPlatform:
		return "unsupported platform"
	default:
		return "unknown failure"
	}
}

// Error carries the kind of failure along with the operation and path that
// produced it.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	msg := strings.Join(parts, " ")
	if e.Err != nil {
		if msg == "" {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", msg, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error of the given kind.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Transport wraps a network failure.
func Transport(op, url string, err error) error {
	return New(TransportFailure, op, url, err)
}

// Decompression wraps an archive decoding or extraction failure.
func Decompression(op, path string, err error) error {
	return New(DecompressionFailure, op, path, err)
}

// Filesystem wraps a local I/O failure.
func Filesystem(op, path string, err error) error {
	return New(FilesystemFailure, op, path, err)
}

// Missing reports an absent required configuration value.
func Missing(name string) error {
	return New(ConfigurationMissing, "read "+name, "", fmt.Errorf("%s is not set", name))
}

// Unsupported reports a platform that maps to no known SDK package.
func Unsupported(value string) error {
	return New(UnsupportedPlatform, "resolve platform", "", fmt.Errorf("%q has no SDK package", value))
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
