package clipboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/atotto/clipboard"
)

// TestServiceCopyWrapsErrors verifies write failures are reported with context.
func TestServiceCopyWrapsErrors(testingHandle *testing.T) {
	if clipboard.Unsupported {
		testingHandle.Skip("clipboard unsupported on this platform")
	}
	writeFailure := errors.New("xclip exited with status 1")
	service := &Service{writeAll: func(string) error { return writeFailure }}

	copyError := service.Copy("root")
	if !errors.Is(copyError, writeFailure) {
		testingHandle.Fatalf("expected wrapped write failure, got %v", copyError)
	}
	if !strings.Contains(copyError.Error(), "clipboard") {
		testingHandle.Fatalf("expected clipboard context in %q", copyError.Error())
	}
}

// TestServiceCopyPassesText verifies the rendered text reaches the clipboard writer unchanged.
func TestServiceCopyPassesText(testingHandle *testing.T) {
	if clipboard.Unsupported {
		testingHandle.Skip("clipboard unsupported on this platform")
	}
	var written string
	service := &Service{writeAll: func(text string) error {
		written = text
		return nil
	}}

	const renderedTree = "root\n└── a/"
	if copyError := service.Copy(renderedTree); copyError != nil {
		testingHandle.Fatalf("unexpected error: %v", copyError)
	}
	if written != renderedTree {
		testingHandle.Fatalf("expected %q, got %q", renderedTree, written)
	}
}
