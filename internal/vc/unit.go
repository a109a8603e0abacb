// Package vc models lowered verification-condition units and the narrow
// interface to the external proof engine that resolves, transforms, and
// solves them.
package vc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DumpExtension is the extension of on-disk verification-condition dumps.
const DumpExtension = ".vcp"

// Unit is one lowered verification-condition program: the translation of a
// single verifiable module. The text is opaque to the controller; only the
// proof engine interprets it.
type Unit struct {
	// Name is the verifiable module's name.
	Name string
	// Text is the verification-condition program. Transforms rewrite it
	// in place.
	Text []byte
}

// Hash returns the SHA-256 of the unit text, used as the incremental cache
// key component that changes whenever the lowered program changes.
func (u *Unit) Hash() string {
	sum := sha256.Sum256(u.Text)
	return hex.EncodeToString(sum[:])
}

// ArtifactName derives a deterministic artifact file name from the base
// input file name and the unit name alone, so independent runs over
// different (base, unit) pairs never collide.
func ArtifactName(baseName, unitName string) string {
	return fmt.Sprintf("%s-%s%s", sanitize(baseName), sanitize(unitName), DumpExtension)
}

// ArtifactPath places the artifact in dumpDir, falling back to the system
// temporary directory when no dump directory is configured.
func ArtifactPath(dumpDir, baseName, unitName string) string {
	if dumpDir == "" {
		dumpDir = os.TempDir()
	}
	return filepath.Join(dumpDir, ArtifactName(baseName, unitName))
}

// Dump writes the unit text to its artifact path, creating the directory
// if needed.
func (u *Unit) Dump(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dump directory: %w", err)
	}
	if err := os.WriteFile(path, u.Text, 0644); err != nil {
		return fmt.Errorf("dump unit %s: %w", u.Name, err)
	}
	return nil
}

// sanitize replaces path-hostile characters in name components. Module
// names can contain separators from nesting (for example "Outer.Inner").
func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(name)
}
