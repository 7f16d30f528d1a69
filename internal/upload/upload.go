// Package upload selects a local PDF and submits it to the backend, turning
// a successful upload into the current session.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gennadis/pdfchatui/internal/client"
	"github.com/gennadis/pdfchatui/internal/flight"
	"github.com/gennadis/pdfchatui/internal/session"
	"github.com/gennadis/pdfchatui/internal/status"
)

const (
	msgSelectFile   = "Please select a PDF file"
	msgUploaded     = "PDF uploaded successfully!"
	msgFailedPrefix = "Upload failed: "
	msgErrorPrefix  = "Upload error: "
)

var ErrNoFile = errors.New("no file selected")

// Uploader is the part of the backend client the controller needs.
type Uploader interface {
	UploadPDF(ctx context.Context, fileName string, r io.Reader) (*client.UploadResponse, error)
}

// PendingFile is a selected file that has not been uploaded yet.
type PendingFile struct {
	Path string
	Name string
	Size int64
}

// Operation is one issued upload. Run may execute it off the UI goroutine.
type Operation struct {
	ctx    context.Context
	ticket flight.Ticket
	File   PendingFile
}

type Result struct {
	Response *client.UploadResponse
	Err      error
}

type Controller struct {
	mu      sync.Mutex
	api     Uploader
	session *session.Holder
	banner  *status.Banner
	guard   flight.Guard
	pending *PendingFile
}

func NewController(api Uploader, holder *session.Holder, banner *status.Banner) *Controller {
	return &Controller{
		api:     api,
		session: holder,
		banner:  banner,
	}
}

// Select records path as the pending file and clears the status banner.
// File contents are not inspected.
func (c *Controller) Select(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to select %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to select %s: is a directory", path)
	}

	c.mu.Lock()
	c.pending = &PendingFile{Path: path, Name: filepath.Base(path), Size: info.Size()}
	c.mu.Unlock()
	c.banner.Clear()

	slog.Debug("file selected",
		slog.String("path", path),
		slog.Int64("size", info.Size()),
	)
	return nil
}

// Pending returns the selected file, or nil.
func (c *Controller) Pending() *PendingFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// Begin validates the selection and claims the single upload slot. Without a
// pending file it reports an error status and returns ErrNoFile. While an
// upload is running it returns flight.ErrBusy and changes nothing.
func (c *Controller) Begin(ctx context.Context) (*Operation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.guard.Busy() {
		return nil, flight.ErrBusy
	}
	if c.pending == nil {
		c.banner.Error(msgSelectFile)
		return nil, ErrNoFile
	}

	opCtx, ticket, err := c.guard.Begin(ctx)
	if err != nil {
		return nil, err
	}
	c.banner.Clear()

	return &Operation{ctx: opCtx, ticket: ticket, File: *c.pending}, nil
}

// Run performs the single network attempt for op. It touches no controller
// state.
func (c *Controller) Run(op *Operation) Result {
	f, err := os.Open(op.File.Path)
	if err != nil {
		return Result{Err: err}
	}
	defer f.Close()

	resp, err := c.api.UploadPDF(op.ctx, op.File.Name, f)
	return Result{Response: resp, Err: err}
}

// Finish applies the outcome of op. A successful upload is persisted as the
// new session before anything else changes; on any failure the session is
// left as it was. It returns res.Err (or the persistence error), or
// flight.ErrStale when op is no longer current.
func (c *Controller) Finish(ctx context.Context, op *Operation, res Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.guard.Current(op.ticket) {
		return flight.ErrStale
	}

	err := res.Err
	if err == nil {
		err = c.session.Set(ctx, res.Response.DocID)
	}

	if ferr := c.guard.Finish(op.ticket, err != nil); ferr != nil {
		return ferr
	}

	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			c.banner.Error(msgFailedPrefix + apiErr.Body)
		} else {
			c.banner.Error(msgErrorPrefix + err.Error())
		}
		slog.Error("Upload failed", "file", op.File.Name, "error", err)
		return err
	}

	// a file picked while the upload ran stays selected
	if c.pending != nil && c.pending.Path == op.File.Path {
		c.pending = nil
	}
	c.banner.Success(msgUploaded)

	slog.Info("document uploaded",
		slog.String("file", op.File.Name),
		slog.String("doc_id", res.Response.DocID),
	)
	return nil
}

// Cancel abandons a running upload. Its late result is discarded.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guard.Cancel()
}

// Upload runs Begin, Run and Finish in sequence.
func (c *Controller) Upload(ctx context.Context) error {
	op, err := c.Begin(ctx)
	if err != nil {
		return err
	}
	return c.Finish(ctx, op, c.Run(op))
}

func (c *Controller) State() flight.State {
	return c.guard.State()
}

func (c *Controller) Busy() bool {
	return c.guard.Busy()
}
