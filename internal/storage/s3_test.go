package storage

import "testing"

func TestNewReturnsNilWithoutCredentials(t *testing.T) {
	c, err := New("", "eu-central", "", "", "avatars", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client when endpoint and credentials are empty")
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		key       string
		want      string
	}{
		{
			name: "path-style without public URL",
			key:  "avatars/abc.png",
			want: "https://s3.test.local/avatars-bucket/avatars/abc.png",
		},
		{
			name:      "CDN public URL",
			publicURL: "https://cdn.kalem.local",
			key:       "avatars/abc.png",
			want:      "https://cdn.kalem.local/avatars/abc.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("https://s3.test.local/", "eu-central", "key", "secret", "avatars-bucket", tt.publicURL)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := c.FileURL(tt.key); got != tt.want {
				t.Errorf("FileURL: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractKey(t *testing.T) {
	c, err := New("https://s3.test.local", "eu-central", "key", "secret", "avatars-bucket", "https://cdn.kalem.local")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		url     string
		wantKey string
		wantOK  bool
	}{
		{"https://cdn.kalem.local/avatars/abc.png", "avatars/abc.png", true},
		{"https://s3.test.local/avatars-bucket/avatars/abc.png", "avatars/abc.png", true},
		{"https://elsewhere.example.com/avatars/abc.png", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		key, ok := c.ExtractKey(tt.url)
		if key != tt.wantKey || ok != tt.wantOK {
			t.Errorf("ExtractKey(%q) = (%q, %v), want (%q, %v)", tt.url, key, ok, tt.wantKey, tt.wantOK)
		}
	}
}
