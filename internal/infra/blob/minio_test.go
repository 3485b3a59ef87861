package blob

import (
	"regexp"
	"testing"
)

var keyPattern = regexp.MustCompile(`^exams/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.pdf$`)

func TestNewObjectKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := newObjectKey()
		if !keyPattern.MatchString(key) {
			t.Fatalf("key %q does not match exams/<uuid>.pdf", key)
		}
		if seen[key] {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = true
	}
}

func TestNewMinioStore_BadEndpoint(t *testing.T) {
	_, err := NewMinioStore(Config{
		Endpoint:  "http://not host:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "exam-archive",
	})
	if err == nil {
		t.Fatal("expected error for malformed endpoint")
	}
}
