package errors

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "musl", false},
		{"valid with dash", "py3-requests", false},
		{"valid with underscore", "my_package", false},
		{"valid with dot", "libc.utils", false},
		{"valid with digits", "openssl3", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo/../bar", true},
		{"path traversal //", "foo//bar", true},
		{"double dot mapping to identifier", "a..b", true},
		{"single dots", "a.b.c", false},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"space", "foo bar", true},
		{"leading digit", "7zip", true},
		{"plus sign", "gcc-c++", true},
		{"scoped", "@scope/package", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("ValidatePackageName(%q) returned wrong error code: %v", tt.input, err)
			}
			if err == nil && got != tt.input {
				t.Errorf("ValidatePackageName(%q) = %q", tt.input, got)
			}
		})
	}
}

func TestValidateRepo(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "repo.txt")
	if err := os.WriteFile(file, []byte("A: B\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"https url", "https://dl-cdn.alpinelinux.org/alpine/v3.20/main/x86_64/", "https://dl-cdn.alpinelinux.org/alpine/v3.20/main/x86_64/", false},
		{"http url", "http://mirror.local/APKINDEX.tar.gz", "http://mirror.local/APKINDEX.tar.gz", false},
		{"file url", "file:///srv/repo/APKINDEX.tar.gz", "file:///srv/repo/APKINDEX.tar.gz", false},
		{"existing file", file, file, false},

		{"empty", "", "", true},
		{"ftp url", "ftp://mirror.local/repo", "", true},
		{"missing path", filepath.Join(dir, "missing.txt"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateRepo(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRepo(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateRepo(%q) returned wrong error code: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateRepo(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateRepoMakesRelativePathAbsolute(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("repo.txt", nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ValidateRepo("repo.txt")
	if err != nil {
		t.Fatalf("ValidateRepo: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "repo.txt" {
		t.Errorf("ValidateRepo(repo.txt) = %q, want absolute path", got)
	}
}

func TestValidateMode(t *testing.T) {
	for _, mode := range []string{"online", "offline", "test"} {
		if _, err := ValidateMode(mode); err != nil {
			t.Errorf("ValidateMode(%q) = %v", mode, err)
		}
	}
	for _, mode := range []string{"", "Online", "remote"} {
		_, err := ValidateMode(mode)
		if !Is(err, ErrCodeInvalidMode) {
			t.Errorf("ValidateMode(%q) error = %v, want %s", mode, err, ErrCodeInvalidMode)
		}
	}
}

func TestValidateOutputFile(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"graph.png", false},
		{"out/graph.svg", false},
		{"graph.pdf", false},
		{"graph.jpg", false},

		{"", true},
		{"graph.jpeg", true},
		{"graph.PNG", true},
		{"graph", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ValidateOutputFile(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFile(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("ValidateOutputFile(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"yes", true, false},
		{"On", true, false},
		{"false", false, false},
		{"0", false, false},
		{"no", false, false},
		{"OFF", false, false},

		{"", false, true},
		{"maybe", false, true},
		{"2", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBool(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBool(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidPackage,
		ErrCodeInvalidPath,
		ErrCodeInvalidMode,
		ErrCodeInvalidFormat,
		ErrCodeInvalidManifest,
		ErrCodeNotFound,
		ErrCodePackageNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeRenderUnavailable,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
