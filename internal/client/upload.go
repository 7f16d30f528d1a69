package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"
)

const uploadField = "file"

var ErrMissingDocID = errors.New("upload response has no doc_id")

type UploadResponse struct {
	DocID    string `json:"doc_id"`
	FileName string `json:"filename"`
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadPDF sends the document as the multipart field "file" and returns the
// identifier the backend assigned to it.
func (c *Client) UploadPDF(ctx context.Context, fileName string, r io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadField, quoteEscaper.Replace(fileName)))
	header.Set("Content-Type", PDFContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	size, err := io.Copy(part, r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	slog.Info("uploading document",
		slog.String("file", fileName),
		slog.Int64("bytes", size),
	)

	body, err := c.post(ctx, uploadPath, mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}

	uploadResp := UploadResponse{}
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		slog.Error("Failed to unmarshal upload response body", "error", err)
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploadResp.DocID == "" {
		return nil, ErrMissingDocID
	}
	return &uploadResp, nil
}
