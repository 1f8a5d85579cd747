package endpoints

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
	"github.com/Nixie-Tech-LLC/muezzin/internal/storage"
)

// AzanSelector tracks which stored recording plays on arrival.
type AzanSelector interface {
	Name() string
	Use(name string)
}

// AzanModule mounts /azan. persist, when set, saves the selection so it
// survives a restart.
func AzanModule(store storage.Storage, selector AzanSelector, persist func(name string) error) api.Module {
	ctl := &AzanController{store: store, selector: selector, persist: persist}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/azan", ctl.getAzan)
		c.POST("/azan", ctl.uploadAzan)
	})
}

type AzanController struct {
	store    storage.Storage
	selector AzanSelector
	persist  func(name string) error

	// mu keeps the selection and the persisted settings in the same order.
	mu sync.Mutex
}

// GET /api/admin/azan
func (a *AzanController) getAzan(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	return packets.AzanResponse{Name: a.selector.Name()}, nil
}

// POST /api/admin/azan (multipart, field "file")
func (a *AzanController) uploadAzan(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	name, err := a.store.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotAudio) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		log.Error().Err(err).Msg("azan upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store file"}
	}

	if err := a.activate(name); err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to persist azan selection")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "stored file but could not save settings"}
	}
	log.Info().Str("admin", admin.Email).Str("name", name).Msg("azan replaced")
	return packets.AzanResponse{Name: name}, nil
}

func (a *AzanController) activate(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selector.Use(name)
	if a.persist == nil {
		return nil
	}
	return a.persist(name)
}
