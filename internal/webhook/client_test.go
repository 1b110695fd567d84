package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/NTBooks/solquiz/internal/config"
	"github.com/NTBooks/solquiz/internal/model"
)

func testClient(baseURL string) *Client {
	return NewClient(&config.Config{
		HookBaseURL:   baseURL,
		HookAPIKey:    "test-key",
		HookAPISecret: "test-secret",
		HookNetwork:   "devnet",
	}, zerolog.Nop())
}

func assertAuth(t *testing.T, r *http.Request) {
	t.Helper()
	if got := r.Header.Get("x-api-secret"); got != "test-secret" {
		t.Errorf("x-api-secret = %q", got)
	}
	if got := r.Header.Get("x-network"); got != "devnet" {
		t.Errorf("x-network = %q", got)
	}
}

func TestUpload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/hook/test-key/certs" {
			t.Errorf("path = %s", r.URL.Path)
		}
		assertAuth(t, r)

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer f.Close()
		if header.Filename != "certificate-SOLQ-1.png" {
			t.Errorf("filename = %q", header.Filename)
		}

		w.Write([]byte(`{"filehash":"abc123"}`))
	}))
	defer ts.Close()

	hash, err := testClient(ts.URL).Upload(context.Background(), "certs", "certificate-SOLQ-1.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if hash != "abc123" {
		t.Errorf("hash = %q, want abc123", hash)
	}
}

func TestUploadLegacyHashField(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hash":"legacy456"}`))
	}))
	defer ts.Close()

	hash, err := testClient(ts.URL).Upload(context.Background(), "certs", "c.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if hash != "legacy456" {
		t.Errorf("hash = %q, want legacy456", hash)
	}
}

func TestUploadMissingHashIsUnknownNotError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	hash, err := testClient(ts.URL).Upload(context.Background(), "certs", "c.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if hash != model.UnknownHash {
		t.Errorf("hash = %q, want %q", hash, model.UnknownHash)
	}
}

func TestUploadNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection quota exceeded", http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Upload(context.Background(), "certs", "c.png", strings.NewReader("x"))
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("err = %v, want ErrUpload", err)
	}
	// Upstream message text is surfaced (accepted leak per the demo design).
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("err = %v, want upstream message included", err)
	}
}

func TestUploadTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused

	_, err := testClient(ts.URL).Upload(context.Background(), "certs", "c.png", strings.NewReader("x"))
	if !errors.Is(err, ErrUpload) {
		t.Errorf("err = %v, want ErrUpload", err)
	}
}

func TestStamp(t *testing.T) {
	var gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		assertAuth(t, r)
		if r.ContentLength != 0 {
			t.Errorf("stamp carries a body of %d bytes", r.ContentLength)
		}
	}))
	defer ts.Close()

	if err := testClient(ts.URL).Stamp(context.Background(), "certs"); err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
}

func TestStampNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nothing to stamp", http.StatusConflict)
	}))
	defer ts.Close()

	if err := testClient(ts.URL).Stamp(context.Background(), "certs"); !errors.Is(err, ErrStamp) {
		t.Errorf("err = %v, want ErrStamp", err)
	}
}

func TestFileInfo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte(`{"files":[
			{"filehash":"aaa","name":"one.png","stamped":true},
			{"filehash":"bbb","name":"two.png","stamped":false}
		]}`))
	}))
	defer ts.Close()

	rec, err := testClient(ts.URL).FileInfo(context.Background(), "certs", "bbb")
	if err != nil {
		t.Fatalf("FileInfo: %v", err)
	}
	if rec.Name != "two.png" || rec.Stamped {
		t.Errorf("record = %+v", rec)
	}

	_, err = testClient(ts.URL).FileInfo(context.Background(), "certs", "zzz")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListFilesMalformedListing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`)) // no files field
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).ListFiles(context.Background(), "certs")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}

func TestFileStatus(t *testing.T) {
	const payload = `{"filehash":"aaa","confirmed":true,"links":{"export":"https://example.com/x"}}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertAuth(t, r)
		if got := r.Header.Get("x-filehash"); got != "aaa" {
			t.Errorf("x-filehash = %q", got)
		}
		if got := r.URL.Query().Get("expand"); got != "links" {
			t.Errorf("expand = %q, want links", got)
		}
		w.Write([]byte(payload))
	}))
	defer ts.Close()

	raw, err := testClient(ts.URL).FileStatus(context.Background(), "certs", "aaa")
	if err != nil {
		t.Fatalf("FileStatus: %v", err)
	}
	if string(raw) != payload {
		t.Errorf("payload not passed through: %s", raw)
	}
}

func TestFileStatusNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FileStatus(context.Background(), "certs", "aaa")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}
