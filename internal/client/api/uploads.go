package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// contentTypes covers the extensions the server accepts.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type UploadedDocument struct {
	ID       string `json:"id"`
	FilePath string `json:"filePath"`
	Message  string `json:"message"`
}

type DocumentInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

func contentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

func (c *Client) uploadFile(ctx context.Context, path, localPath string, out any) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	name := filepath.Base(localPath)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": "file", "filename": name}))
	hdr.Set("Content-Type", contentTypeFor(name))

	part, err := mw.CreatePart(hdr)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

// UploadAvatar sends a jpeg or png and returns its URL.
func (c *Client) UploadAvatar(ctx context.Context, localPath string) (string, error) {
	var out struct {
		FileURL string `json:"fileUrl"`
	}
	if err := c.uploadFile(ctx, "/uploads/avatar", localPath, &out); err != nil {
		return "", err
	}
	return out.FileURL, nil
}

// UploadDocument sends a pdf, doc or docx to be stored encrypted.
func (c *Client) UploadDocument(ctx context.Context, localPath string) (*UploadedDocument, error) {
	var out UploadedDocument
	if err := c.uploadFile(ctx, "/uploads/document", localPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	var out struct {
		Documents []DocumentInfo `json:"documents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/uploads/documents", nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// DownloadDocument returns the decrypted document and the name it was
// uploaded under.
func (c *Client) DownloadDocument(ctx context.Context, id string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/uploads/documents/"+url.PathEscape(id), "", nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read document: %w", err)
	}

	name := id
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = filepath.Base(params["filename"])
	}
	return data, name, nil
}
