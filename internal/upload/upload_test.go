package upload_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gennadis/pdfchatui/internal/client"
	"github.com/gennadis/pdfchatui/internal/config"
	"github.com/gennadis/pdfchatui/internal/flight"
	"github.com/gennadis/pdfchatui/internal/session"
	"github.com/gennadis/pdfchatui/internal/status"
	"github.com/gennadis/pdfchatui/internal/upload"
)

type fakeUploader struct {
	calls atomic.Int32
	resp  *client.UploadResponse
	err   error
}

func (f *fakeUploader) UploadPDF(ctx context.Context, name string, r io.Reader) (*client.UploadResponse, error) {
	f.calls.Add(1)
	io.Copy(io.Discard, r)
	return f.resp, f.err
}

type fixture struct {
	store      *session.MemoryStore
	holder     *session.Holder
	banner     *status.Banner
	controller *upload.Controller
}

func newFixture(t *testing.T, api upload.Uploader, storedID string) *fixture {
	t.Helper()
	store := session.NewMemoryStore(storedID)
	holder := session.NewHolder(store)
	if err := holder.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	banner := &status.Banner{}
	return &fixture{
		store:      store,
		holder:     holder,
		banner:     banner,
		controller: upload.NewController(api, holder, banner),
	}
}

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatalf("write test pdf: %v", err)
	}
	return path
}

func newBackend(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return client.NewClient(*config.NewConfig(server.URL))
}

func TestUpload_NoFileSelected(t *testing.T) {
	api := &fakeUploader{}
	f := newFixture(t, api, "")

	err := f.controller.Upload(context.Background())
	if !errors.Is(err, upload.ErrNoFile) {
		t.Fatalf("Upload() error = %v, want ErrNoFile", err)
	}
	if api.calls.Load() != 0 {
		t.Errorf("backend called %d times, want 0", api.calls.Load())
	}
	st := f.banner.Current()
	if st == nil || st.Kind != status.KindError {
		t.Fatalf("status = %+v, want error", st)
	}
	if st.Message != "Please select a PDF file" {
		t.Errorf("status message = %q", st.Message)
	}
	if f.controller.State() != flight.Idle {
		t.Errorf("State() = %v, want idle", f.controller.State())
	}
}

func TestUpload_Success(t *testing.T) {
	var hits atomic.Int32
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"doc_id": "abc123", "filename": "doc.pdf"})
	})
	f := newFixture(t, api, "")

	if err := f.controller.Select(writePDF(t, "doc.pdf")); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if err := f.controller.Upload(context.Background()); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("backend hit %d times, want 1", hits.Load())
	}
	if got := f.holder.Current().ID; got != "abc123" {
		t.Errorf("session = %q, want abc123", got)
	}
	if f.controller.Pending() != nil {
		t.Errorf("pending file not cleared")
	}
	st := f.banner.Current()
	if st == nil || st.Kind != status.KindSuccess {
		t.Fatalf("status = %+v, want success", st)
	}
	if f.controller.State() != flight.Succeeded {
		t.Errorf("State() = %v, want succeeded", f.controller.State())
	}

	// the id survives a reload of the holder from the same store
	reloaded := session.NewHolder(f.store)
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := reloaded.Current().ID; got != "abc123" {
		t.Errorf("reloaded session = %q, want abc123", got)
	}
}

func TestUpload_Non2xxKeepsSession(t *testing.T) {
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad file"))
	})
	f := newFixture(t, api, "previous")

	path := writePDF(t, "doc.pdf")
	f.controller.Select(path)
	err := f.controller.Upload(context.Background())

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Upload() error = %v, want *client.APIError", err)
	}
	st := f.banner.Current()
	if st == nil || st.Kind != status.KindError {
		t.Fatalf("status = %+v, want error", st)
	}
	if !strings.Contains(st.Message, "bad file") {
		t.Errorf("status message = %q, want it to contain %q", st.Message, "bad file")
	}
	if got := f.holder.Current().ID; got != "previous" {
		t.Errorf("session = %q, want previous", got)
	}
	if got, _ := f.store.Get(context.Background()); got != "previous" {
		t.Errorf("stored session = %q, want previous", got)
	}
	if p := f.controller.Pending(); p == nil || p.Path != path {
		t.Errorf("pending file = %+v, want it kept after failure", p)
	}
	if f.controller.State() != flight.Failed {
		t.Errorf("State() = %v, want failed", f.controller.State())
	}
}

func TestUpload_TransportError(t *testing.T) {
	api := &fakeUploader{err: errors.New("connection refused")}
	f := newFixture(t, api, "previous")

	f.controller.Select(writePDF(t, "doc.pdf"))
	if err := f.controller.Upload(context.Background()); err == nil {
		t.Fatalf("Upload() succeeded, want error")
	}

	st := f.banner.Current()
	if st == nil || st.Message != "Upload error: connection refused" {
		t.Fatalf("status = %+v", st)
	}
	if got := f.holder.Current().ID; got != "previous" {
		t.Errorf("session = %q, want previous", got)
	}
}

func TestUpload_SecondBeginWhileBusy(t *testing.T) {
	api := &fakeUploader{resp: &client.UploadResponse{DocID: "abc123"}}
	f := newFixture(t, api, "")
	f.controller.Select(writePDF(t, "doc.pdf"))

	op, err := f.controller.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if _, err := f.controller.Begin(context.Background()); !errors.Is(err, flight.ErrBusy) {
		t.Fatalf("second Begin() error = %v, want ErrBusy", err)
	}

	if err := f.controller.Finish(context.Background(), op, f.controller.Run(op)); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if api.calls.Load() != 1 {
		t.Errorf("backend called %d times, want 1", api.calls.Load())
	}
}

func TestUpload_SelectionDuringFlightIsKept(t *testing.T) {
	api := &fakeUploader{resp: &client.UploadResponse{DocID: "abc123"}}
	f := newFixture(t, api, "")
	f.controller.Select(writePDF(t, "first.pdf"))

	op, err := f.controller.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	second := writePDF(t, "second.pdf")
	f.controller.Select(second)

	if err := f.controller.Finish(context.Background(), op, f.controller.Run(op)); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if p := f.controller.Pending(); p == nil || p.Path != second {
		t.Errorf("pending = %+v, want %s", p, second)
	}
}

func TestUpload_CancelDiscardsResult(t *testing.T) {
	api := &fakeUploader{resp: &client.UploadResponse{DocID: "late"}}
	f := newFixture(t, api, "previous")
	f.controller.Select(writePDF(t, "doc.pdf"))

	op, err := f.controller.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if !f.controller.Cancel() {
		t.Fatalf("Cancel() = false")
	}

	err = f.controller.Finish(context.Background(), op, upload.Result{Response: &client.UploadResponse{DocID: "late"}})
	if !errors.Is(err, flight.ErrStale) {
		t.Fatalf("Finish() error = %v, want ErrStale", err)
	}
	if got := f.holder.Current().ID; got != "previous" {
		t.Errorf("session = %q, want previous", got)
	}
}

func TestSelect_Missing(t *testing.T) {
	f := newFixture(t, &fakeUploader{}, "")
	if err := f.controller.Select(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatalf("Select() of missing file succeeded")
	}
	if f.controller.Pending() != nil {
		t.Errorf("pending set for missing file")
	}
}

func TestSelect_ClearsStatus(t *testing.T) {
	f := newFixture(t, &fakeUploader{}, "")
	f.controller.Upload(context.Background())
	if f.banner.Current() == nil {
		t.Fatalf("expected error status after empty upload")
	}

	f.controller.Select(writePDF(t, "doc.pdf"))
	if st := f.banner.Current(); st != nil {
		t.Errorf("status = %+v after selection, want none", st)
	}
}
