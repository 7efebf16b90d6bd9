package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

const samplePayload = `[
  {"abbreviation":"AR","capital":"Buenos Aires","currency":"ARS","name":"Argentina","phone":"54",
   "population":44000000,"media":{"flag":"https://example.test/ar.svg","emblem":"","orthographic":"o.svg"},"id":1},
  {"abbreviation":"AQ","capital":"","currency":"","name":"Antarctica","phone":"",
   "population":null,"media":{"flag":null,"emblem":null,"orthographic":"o.svg"},"id":2,"unknown":"ignored"}
]`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), userAgent)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestFetchCountriesSuccess verifies the wire payload decodes into models in server order
func TestFetchCountriesSuccess(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, samplePayload)
	client := NewClient(5*time.Second, nil)

	countries, err := client.FetchCountries(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchCountries() error: %v", err)
	}
	if len(countries) != 2 {
		t.Fatalf("got %d countries, want 2", len(countries))
	}
	if countries[0].Name != "Argentina" || countries[1].Name != "Antarctica" {
		t.Errorf("order not preserved: %q, %q", countries[0].Name, countries[1].Name)
	}
	if countries[0].Population == nil || *countries[0].Population != 44_000_000 {
		t.Errorf("population = %v, want 44000000", countries[0].Population)
	}
	if countries[1].Population != nil {
		t.Errorf("null population decoded as %v", *countries[1].Population)
	}
	if countries[0].CallingCode != "54" {
		t.Errorf("CallingCode = %q, want 54", countries[0].CallingCode)
	}
	if _, ok := countries[1].ImageURL(); ok {
		t.Error("Antarctica should have no image")
	}
}

// TestFetchCountriesErrorTaxonomy verifies each failure lands in its kind and message
func TestFetchCountriesErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
		wantMsg  string
	}{
		{"server error", http.StatusInternalServerError, "boom", KindHTTPStatus, MsgInvalidResponse},
		{"not found", http.StatusNotFound, "", KindHTTPStatus, MsgInvalidResponse},
		{"redirect status without location", http.StatusMultipleChoices, "", KindHTTPStatus, MsgInvalidResponse},
		{"empty body", http.StatusOK, "", KindNoData, MsgNoData},
		{"whitespace body", http.StatusOK, " \n\t", KindNoData, MsgNoData},
		{"object instead of array", http.StatusOK, `{"name":"x"}`, KindDecode, MsgDecode},
		{"wrong field type", http.StatusOK, `[{"id":"one","name":"x","media":{}}]`, KindDecode, MsgDecode},
		{"missing id", http.StatusOK, `[{"name":"x","media":{"orthographic":""}}]`, KindDecode, MsgDecode},
		{"missing media", http.StatusOK, `[{"id":1,"name":"x"}]`, KindDecode, MsgDecode},
		{"null entry", http.StatusOK, `[null]`, KindDecode, MsgDecode},
		{"negative population", http.StatusOK, `[{"id":1,"name":"x","population":-1,"media":{}}]`, KindDecode, MsgDecode},
		{"truncated", http.StatusOK, `[{"id":1,`, KindDecode, MsgDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			client := NewClient(5*time.Second, nil)

			_, err := client.FetchCountries(context.Background(), srv.URL)
			if err == nil {
				t.Fatal("expected an error")
			}

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error %T is not a *FetchError", err)
			}
			if fe.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", fe.Kind, tt.wantKind)
			}
			if tt.wantKind == KindHTTPStatus && fe.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.status)
			}
			if got := UserMessage(err); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

// TestFetchCountriesTransportError verifies an unreachable server maps to KindTransport
func TestFetchCountriesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(time.Second, nil).FetchCountries(context.Background(), url)
	if KindOf(err) != KindTransport {
		t.Fatalf("KindOf(%v) = %v, want transport", err, KindOf(err))
	}

	var fe *FetchError
	errors.As(err, &fe)
	if fe.Err == nil {
		t.Fatal("transport error should carry its cause")
	}
	if got := UserMessage(err); got != fe.Err.Error() {
		t.Errorf("UserMessage() = %q, want the cause %q", got, fe.Err.Error())
	}
}

func TestFetchCountriesInvalidURL(t *testing.T) {
	_, err := NewClient(time.Second, nil).FetchCountries(context.Background(), "://nope")
	if KindOf(err) != KindTransport {
		t.Fatalf("KindOf(%v) = %v, want transport", err, KindOf(err))
	}
}

func TestFetchBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Accept"), "image/") {
			t.Errorf("Accept = %q, want image/*", r.Header.Get("Accept"))
		}
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	defer srv.Close()

	body, err := NewClient(time.Second, nil).FetchBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBytes() error: %v", err)
	}
	if string(body) != "PNGDATA" {
		t.Errorf("body = %q", body)
	}
}

func TestUserMessageNonFetchError(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
	if got := UserMessage(context.DeadlineExceeded); got != context.DeadlineExceeded.Error() {
		t.Errorf("UserMessage(deadline) = %q", got)
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"at limit", strings.Repeat("x", 16), false},
		{"over limit", strings.Repeat("x", 17), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tt.body)
			c := NewClient(time.Second, nil)
			c.maxBody = 16

			body, err := c.FetchBytes(context.Background(), srv.URL)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("FetchBytes() error: %v", err)
				}
				if len(body) != 16 {
					t.Errorf("len(body) = %d, want 16", len(body))
				}
				return
			}
			if !errors.Is(err, ErrResponseTooLarge) {
				t.Fatalf("error = %v, want ErrResponseTooLarge", err)
			}
			if KindOf(err) != KindTransport {
				t.Errorf("KindOf() = %v, want %v", KindOf(err), KindTransport)
			}
		})
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	logger, f, err := NewFileLogger(path, log.InfoLevel)
	if err != nil {
		t.Fatalf("NewFileLogger() error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("Countries loaded", "total", 3)
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "Countries loaded") || !strings.Contains(out, "total=3") {
		t.Errorf("log output = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
}
