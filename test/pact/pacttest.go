//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "bookstore-api"
	ConsumerName = "storefront-web"

	StateCatalogSeeded = "catalog holds at least one book"
	StateBookExists    = "book 7d1f0a54-9a1e-4a07-94f6-1f1f0b6f2c11 exists"
	StateBookMissing   = "no book with id 00000000-0000-0000-0000-000000000404"
	StateReaderExists  = "reader ada@example.com is registered"
)

const (
	ExistingBookID = "7d1f0a54-9a1e-4a07-94f6-1f1f0b6f2c11"
	MissingBookID  = "00000000-0000-0000-0000-000000000404"

	ExistingAuthorID = "3c2b6a10-55cd-4dd9-8d27-6a8f6d2c9e02"

	ReaderName     = "Ada Pact"
	ReaderEmail    = "ada@example.com"
	ReaderPassword = "pact-pass-1"
)

const (
	exampleBookTitle = "Dune"
	exampleBookGenre = "science-fiction"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleBookPayload provides stable test data for pact interactions.
func ExampleBookPayload() map[string]any {
	return map[string]any{
		"id":       ExistingBookID,
		"title":    exampleBookTitle,
		"authorId": ExistingAuthorID,
		"price":    10.0,
		"stock":    5,
		"genres":   []string{exampleBookGenre},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
