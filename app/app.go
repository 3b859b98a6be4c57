package app

import (
	"database/sql"

	"github.com/adhamo/formdesk/config"
)

type App struct {
	*sql.DB
	config.Config
}
