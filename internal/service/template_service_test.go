package service

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaworks/rota-api/pkg/storage"
)

func newTestTemplateService(t *testing.T) *TemplateService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	return NewTemplateService(store, signer, 1024, nil)
}

func TestTemplateServiceUploadAndList(t *testing.T) {
	svc := newTestTemplateService(t)

	result, err := svc.Upload("../../../etc/rota.xlsx", 12, strings.NewReader("spreadsheet"))
	require.NoError(t, err)
	assert.Equal(t, "rota.xlsx", result.Filename)

	list, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"rota.xlsx"}, list.Templates)
}

func TestTemplateServiceUploadGeneratesName(t *testing.T) {
	svc := newTestTemplateService(t)

	result, err := svc.Upload("", 5, strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Filename, ".xlsx"))
	assert.NotEqual(t, ".xlsx", result.Filename)
}

func TestTemplateServiceUploadTooLarge(t *testing.T) {
	svc := newTestTemplateService(t)

	_, err := svc.Upload("big.xlsx", 4096, strings.NewReader("x"))
	require.Error(t, err)
}

func TestTemplateServiceLinkAndResolve(t *testing.T) {
	svc := newTestTemplateService(t)

	_, err := svc.Upload("weekly.xlsx", 7, strings.NewReader("content"))
	require.NoError(t, err)

	link, err := svc.Link("weekly.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "weekly.xlsx", link.Filename)
	assert.NotEmpty(t, link.Token)
	assert.True(t, link.ExpiresAt.After(time.Now()))

	f, name, err := svc.Resolve(link.Token)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "weekly.xlsx", name)
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
}

func TestTemplateServiceLinkMissingFile(t *testing.T) {
	svc := newTestTemplateService(t)

	_, err := svc.Link("nope.xlsx")
	require.Error(t, err)
}

func TestTemplateServiceResolveBadToken(t *testing.T) {
	svc := newTestTemplateService(t)

	_, _, err := svc.Resolve("not.a.token")
	require.Error(t, err)
}
