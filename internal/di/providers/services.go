package providers

import (
	"github.com/samber/do/v2"

	"github.com/linkstashapp/linkstash-server/internal/auth"
	"github.com/linkstashapp/linkstash-server/internal/config"
	"github.com/linkstashapp/linkstash-server/internal/logger"
	"github.com/linkstashapp/linkstash-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, cfg.Auth.SignupsEnabled, log.Logger), nil
}

// ProvideBookmarkService provides the bookmark service. Created bookmarks
// with missing metadata are handed to the enrichment queue unless
// enrichment is disabled.
func ProvideBookmarkService(i do.Injector) (*service.BookmarkService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	var enricher service.Enricher
	if cfg.Enrich.Enabled {
		queueHandle := do.MustInvoke[*QueueHandle](i)
		enricher = queueHandle.Queue
	}

	return service.NewBookmarkService(storeHandle.Store, enricher, log.Logger), nil
}

// ProvideLabelService provides the label service.
func ProvideLabelService(i do.Injector) (*service.LabelService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLabelService(storeHandle.Store, log.Logger), nil
}

// ProvideListService provides the list service.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewListService(storeHandle.Store, log.Logger), nil
}

// ProvideTransferService provides the import/export service.
func ProvideTransferService(i do.Injector) (*service.TransferService, error) {
	bookmarks := do.MustInvoke[*service.BookmarkService](i)
	labels := do.MustInvoke[*service.LabelService](i)
	lists := do.MustInvoke[*service.ListService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTransferService(bookmarks, labels, lists, log.Logger), nil
}
