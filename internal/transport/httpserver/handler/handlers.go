package handler

import (
	"net/http"

	authdomain "github.com/malprimis/petanchiki/internal/domain/auth"
	categorydomain "github.com/malprimis/petanchiki/internal/domain/category"
	groupdomain "github.com/malprimis/petanchiki/internal/domain/group"
	reportdomain "github.com/malprimis/petanchiki/internal/domain/report"
	transactiondomain "github.com/malprimis/petanchiki/internal/domain/transaction"
	userdomain "github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/malprimis/petanchiki/pkg/logger"
)

type Services struct {
	Auth         *authdomain.Service
	Users        *userdomain.Service
	Groups       *groupdomain.Service
	Categories   *categorydomain.Service
	Transactions *transactiondomain.Service
	Reports      *reportdomain.Service
}

type Handlers struct {
	Auth         *authdomain.Service
	Users        *userdomain.Service
	Groups       *groupdomain.Service
	Categories   *categorydomain.Service
	Transactions *transactiondomain.Service
	Reports      *reportdomain.Service
	log          logger.Logger
}

func New(services Services, log logger.Logger) *Handlers {
	return &Handlers{
		Auth:         services.Auth,
		Users:        services.Users,
		Groups:       services.Groups,
		Categories:   services.Categories,
		Transactions: services.Transactions,
		Reports:      services.Reports,
		log:          log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
