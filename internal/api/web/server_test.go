package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-classifier/internal/domain/entity"
)

type fakeScreens struct {
	view entity.ScreenView
	err  error
}

func (f *fakeScreens) View(ctx context.Context, id string) (entity.ScreenView, error) {
	return f.view, f.err
}

func (f *fakeScreens) Subscribe(id string) (<-chan entity.ScreenView, func()) {
	return make(chan entity.ScreenView), func() {}
}

type fakeSnapshots struct {
	data []byte
	err  error
}

func (f *fakeSnapshots) Snapshot(ctx context.Context, screenID string) ([]byte, error) {
	return f.data, f.err
}

func TestServer_View(t *testing.T) {
	screens := &fakeScreens{view: entity.ScreenView{
		ScreenID:    "s1",
		State:       "running",
		ShowPreview: true,
		Labels:      []string{"cat", "dog"},
	}}
	srv := NewServer(":0", screens, &fakeSnapshots{}, "s1")

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/view", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got entity.ScreenView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, []string{"cat", "dog"}, got.Labels)
	require.True(t, got.ShowPreview)
}

func TestServer_ViewDenied(t *testing.T) {
	screens := &fakeScreens{view: entity.ScreenView{ScreenID: "s1", Message: entity.MsgNoAccess, Labels: []string{}}}
	srv := NewServer(":0", screens, &fakeSnapshots{}, "s1")

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/view", nil))
	require.NoError(t, err)

	var got entity.ScreenView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, entity.MsgNoAccess, got.Message)
	require.False(t, got.ShowPreview)
}

func TestServer_ViewError(t *testing.T) {
	srv := NewServer(":0", &fakeScreens{err: entity.ErrScreenNotFound}, &fakeSnapshots{}, "s1")

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/view", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestServer_Preview(t *testing.T) {
	srv := NewServer(":0", &fakeScreens{}, &fakeSnapshots{data: []byte("jpeg")}, "s1")

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/preview.jpg", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "jpeg", string(body))
}

func TestServer_PreviewUnavailable(t *testing.T) {
	srv := NewServer(":0", &fakeScreens{}, &fakeSnapshots{err: entity.ErrNoPreview}, "s1")

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/preview.jpg", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_WebSocketRequiresUpgrade(t *testing.T) {
	srv := NewServer(":0", &fakeScreens{}, &fakeSnapshots{}, "s1")

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/ws/view", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
