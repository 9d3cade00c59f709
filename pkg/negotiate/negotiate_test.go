package negotiate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	negotiate "github.com/mutablelogic/go-filebox/pkg/negotiate"
	wire "github.com/mutablelogic/go-filebox/pkg/wire"
)

func headers(pairs ...string) wire.Headers {
	var h wire.Headers
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}
	return h
}

func TestCheckRequestAny(t *testing.T) {
	require.NoError(t, negotiate.CheckRequest(headers(), []string{negotiate.Any}))
}

func TestCheckRequestMissingContentType(t *testing.T) {
	err := negotiate.CheckRequest(headers(), negotiate.BinaryMedia)
	require.NoError(t, err)
}

func TestCheckRequestAccepted(t *testing.T) {
	err := negotiate.CheckRequest(headers("Content-Type", "image/png"), negotiate.BinaryMedia)
	require.NoError(t, err)
}

func TestCheckRequestRejected(t *testing.T) {
	err := negotiate.CheckRequest(headers("Content-Type", "text/html"), negotiate.BinaryMedia)
	require.Error(t, err)
}

func TestSelectResponseWildcard(t *testing.T) {
	got, err := negotiate.SelectResponse(headers("Accept", "*/*"), []string{wire.ContentTypeJSON, wire.ContentTypeText})
	require.NoError(t, err)
	assert.Equal(t, wire.ContentTypeJSON, got)
}

func TestSelectResponseNoAcceptHeader(t *testing.T) {
	got, err := negotiate.SelectResponse(headers(), []string{wire.ContentTypeJSON, wire.ContentTypeText})
	require.NoError(t, err)
	assert.Equal(t, wire.ContentTypeJSON, got)
}

func TestSelectResponsePicksFirstMatch(t *testing.T) {
	got, err := negotiate.SelectResponse(headers("Accept", "text/plain, application/json"), []string{wire.ContentTypeJSON, wire.ContentTypeText})
	require.NoError(t, err)
	assert.Equal(t, wire.ContentTypeJSON, got)
}

func TestSelectResponseFallsBackToNone(t *testing.T) {
	got, err := negotiate.SelectResponse(headers("Accept", "image/png"), []string{wire.ContentTypeJSON, wire.ContentTypeText, wire.ContentTypeNone})
	require.NoError(t, err)
	assert.Equal(t, wire.ContentTypeNone, got)
}

func TestSelectResponseNotAcceptable(t *testing.T) {
	_, err := negotiate.SelectResponse(headers("Accept", "image/png"), []string{wire.ContentTypeJSON, wire.ContentTypeText})
	require.Error(t, err)
}
