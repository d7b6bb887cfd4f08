// Package clipboard places the rendered structure document on the system
// clipboard for pasting into an assistant conversation.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier copies a rendered document to the system clipboard.
type Copier interface {
	Copy(document string) error
}

// SystemCopier implements Copier against the host clipboard.
type SystemCopier struct{}

// NewSystemCopier constructs a clipboard copier for the current platform.
func NewSystemCopier() *SystemCopier {
	return &SystemCopier{}
}

// Copy writes the document to the system clipboard, failing on headless
// systems without a clipboard provider.
func (copier *SystemCopier) Copy(document string) error {
	return clipboard.WriteAll(document)
}

var _ Copier = (*SystemCopier)(nil)
