package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/muezzin/internal/db"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
	"github.com/Nixie-Tech-LLC/muezzin/internal/storage"
)

const (
	secret   = "admin-secret"
	email    = "imam@example.com"
	password = "correct horse"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) (model.DaySchedule, error) {
	f.calls++
	if f.err != nil {
		return model.DaySchedule{}, f.err
	}
	return model.DaySchedule{
		Date:  "2025-03-10",
		Times: model.Schedule{model.Fajr: {Hour: 5, Minute: 0}, model.Isha: {Hour: 19, Minute: 40}},
	}, nil
}

type fixture struct {
	router    *gin.Engine
	store     db.Store
	refresher *fakeRefresher
	azan      *storage.Azan
	persisted []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := middleware.HashPassword(password)
	require.NoError(t, err)

	dir := t.TempDir()
	files := storage.NewLocalStorage(dir)
	f := &fixture{
		router:    gin.New(),
		store:     db.NewMemoryStore(),
		refresher: &fakeRefresher{},
		azan:      storage.NewAzan(files, "azan.mp3", "", false, dir),
	}
	persist := func(name string) error {
		f.persisted = append(f.persisted, name)
		return nil
	}

	api.MountGroup(f.router, api.GroupConfig{Prefix: "/api/admin"},
		AuthPublicModule(secret, email, hash),
	)
	api.MountGroup(f.router, api.GroupConfig{Prefix: "/api/admin", Auth: true, SecretKey: secret},
		AnnouncementModule(f.store),
		ScheduleModule(f.refresher),
		AzanModule(files, f.azan, persist),
	)
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	if auth {
		token, err := middleware.GenerateJWT(email, secret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return f.do(t, req, false)
	}

	w := login(`{"email":"imam@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp packets.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/azan", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	assert.Equal(t, http.StatusOK, f.do(t, req, false).Code)

	assert.Equal(t, http.StatusUnauthorized, login(`{"email":"imam@example.com","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, login(`{"email":"other@example.com","password":"correct horse"}`).Code)
	assert.Equal(t, http.StatusBadRequest, login(`{"email":"not-an-email"}`).Code)
}

func TestListAnnouncements(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, time.March, 10, 9, 54, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.store.RecordAnnouncement(model.Announcement{
			ID:               string(rune('a' + i)),
			Kind:             model.AnnouncementStage,
			Prayer:           model.Dhuhr,
			MinutesRemaining: 120 - i*30,
			Message:          "reminder",
			PrayerAt:         base.Add(2 * time.Hour),
			CreatedAt:        base.Add(time.Duration(i) * 30 * time.Minute),
		}))
	}

	assert.Equal(t, http.StatusUnauthorized,
		f.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/announcements", nil), false).Code)

	w := f.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/announcements?limit=2", nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	var list []packets.AnnouncementResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "stage", list[0].Kind)

	w = f.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/announcements?limit=zero", nil), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshSchedule(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, httptest.NewRequest(http.MethodPost, "/api/admin/schedule/refresh", nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	var resp packets.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "19:40", resp.Times["Isha"])
	assert.Equal(t, 1, f.refresher.calls)

	f.refresher.err = errors.New("upstream down")
	w = f.do(t, httptest.NewRequest(http.MethodPost, "/api/admin/schedule/refresh", nil), true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func upload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/azan", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAzan(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, upload(t, "Makkah Azan.mp3", []byte("ID3")), true)
	require.Equal(t, http.StatusOK, w.Code)
	var resp packets.AzanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Name, "Makkah_Azan_"), resp.Name)
	assert.Equal(t, resp.Name, f.azan.Name())
	assert.Equal(t, []string{resp.Name}, f.persisted)

	path, err := f.azan.Path(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, path)

	w = f.do(t, upload(t, "slides.pdf", []byte("%PDF")), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/azan", nil)
	assert.Equal(t, http.StatusBadRequest, f.do(t, req, true).Code)
}

func TestConcurrentUploadsKeepSelectionAndSettingsInStep(t *testing.T) {
	f := newFixture(t)
	token, err := middleware.GenerateJWT(email, secret)
	require.NoError(t, err)

	const n = 8
	reqs := make([]*http.Request, n)
	for i := range reqs {
		reqs[i] = upload(t, fmt.Sprintf("azan%d.mp3", i), []byte("ID3"))
		reqs[i].Header.Set("Authorization", "Bearer "+token)
	}

	codes := make([]int, n)
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}()
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	require.Len(t, f.persisted, n)
	assert.Equal(t, f.persisted[n-1], f.azan.Name())
}
