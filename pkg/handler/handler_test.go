package handler_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
	handler "github.com/mutablelogic/go-filebox/pkg/handler"
	store "github.com/mutablelogic/go-filebox/pkg/store"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.New(context.Background(), store.WithDir(filepath.Join(dir, "files")))
	require.NoError(t, err)
	return s
}

func req(method string, headers wire.Headers, body []byte) *wire.Request {
	if headers == nil {
		headers = wire.Headers{}
	}
	return &wire.Request{Method: method, Headers: headers, Body: body}
}

func TestUploadSuccess(t *testing.T) {
	s := newTestStore(t)
	h := &handler.Upload{Store: s}

	headers := wire.Headers{}
	headers.Set("Content-Disposition", `attachment; filename="a.txt"`)
	headers.Set("Content-Type", "application/octet-stream")
	headers.Set("Content-Length", "5")
	headers.Set("Accept", "*/*")

	resp, err := h.Serve(context.Background(), req("POST", headers, []byte("HELLO")), nil)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &envelope))
	assert.Equal(t, float64(201), envelope["status"])
	assert.Equal(t, "File saved on the server", envelope["message"])
	assert.Contains(t, envelope["info"], "a.txt")
	assert.Contains(t, envelope["info"], "#1")
}

func TestUploadMissingDisposition(t *testing.T) {
	s := newTestStore(t)
	h := &handler.Upload{Store: s}

	headers := wire.Headers{}
	headers.Set("Content-Type", "application/octet-stream")
	headers.Set("Content-Length", "5")

	_, err := h.Serve(context.Background(), req("POST", headers, []byte("HELLO")), nil)
	require.Error(t, err)
}

func TestUploadEmptyBody(t *testing.T) {
	s := newTestStore(t)
	h := &handler.Upload{Store: s}

	headers := wire.Headers{}
	headers.Set("Content-Disposition", `attachment; filename="a.txt"`)
	headers.Set("Content-Type", "application/octet-stream")
	headers.Set("Content-Length", "0")

	_, err := h.Serve(context.Background(), req("POST", headers, []byte{}), nil)
	require.Error(t, err)
}

func TestDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)

	h := &handler.Download{Store: s}
	headers := wire.Headers{}
	headers.Set("Accept", "*/*")

	resp, err := h.Serve(ctx, req("GET", headers, nil), map[string]string{"id": idString(id)})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, []byte("HELLO"), resp.Body)
	disp, ok := resp.Headers.Get("Content-Disposition")
	require.True(t, ok)
	assert.Contains(t, disp, "a.txt")
}

func TestViewByID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)

	h := &handler.View{Store: s}
	resp, err := h.Serve(ctx, req("GET", wire.Headers{}, nil), map[string]string{"id": idString(id)})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)

	var entries []store.Entry
	require.NoError(t, json.Unmarshal(resp.Body, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, "a.txt", entries[0].Name)
}

func TestRenameSameTypeTag(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)

	h := &handler.Rename{Store: s}
	headers := wire.Headers{}
	headers.Set("Accept", "*/*")

	resp, err := h.Serve(ctx, req("PUT", headers, nil), map[string]string{
		"id": idString(id), "value": "b.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &envelope))
	assert.Equal(t, "File updated successfully", envelope["message"])
}

func TestRenameAcrossExtensionsFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)

	h := &handler.Rename{Store: s}
	_, err = h.Serve(ctx, req("PUT", wire.Headers{}, nil), map[string]string{
		"id": idString(id), "value": "a.bin",
	})
	require.Error(t, err)
}

func TestOverrideUpdatesContents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)

	h := &handler.Override{Store: s}
	headers := wire.Headers{}
	headers.Set("Content-Type", "application/octet-stream")
	headers.Set("Content-Length", "3")

	_, err = h.Serve(ctx, req("PUT", headers, []byte("xyz")), map[string]string{"id": idString(id)})
	require.NoError(t, err)

	body, _, err := s.Get(ctx, store.ByID(id))
	require.NoError(t, err)
	assert.Equal(t, []byte("xyz"), body)
}

func TestDeleteThenDownloadFails(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "a.txt", []byte("HELLO"))
	require.NoError(t, err)

	del := &handler.Delete{Store: s}
	_, err = del.Serve(ctx, req("DELETE", wire.Headers{}, nil), map[string]string{"id": idString(id)})
	require.NoError(t, err)

	dl := &handler.Download{Store: s}
	_, err = dl.Serve(ctx, req("GET", wire.Headers{}, nil), map[string]string{"id": idString(id)})
	require.Error(t, err)
	assert.Equal(t, 404, ferrors.StatusOf(err))
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
