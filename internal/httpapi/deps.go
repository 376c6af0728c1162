package httpapi

import (
	"database/sql"
	"sync/atomic"

	"go.uber.org/zap"

	"jobdash-engine/internal/config"
	"jobdash-engine/internal/dashboard"
	"jobdash-engine/internal/dom"
	"jobdash-engine/internal/events"
	"jobdash-engine/internal/inbox"
	"jobdash-engine/internal/tools"
)

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *zap.Logger

	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Tools *tools.Service
	Inbox *inbox.Poller

	// Dashboard session bound to the server-side page.
	Page       *dom.Page
	Controller *dashboard.Controller
}

func (d Deps) cfg() config.Config {
	return d.CfgVal.Load().(config.Config)
}
