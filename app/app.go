package app

import (
	"github.com/LRM-Solutions/fortelyne-app-checklist/client"
	"github.com/LRM-Solutions/fortelyne-app-checklist/config"
	"github.com/LRM-Solutions/fortelyne-app-checklist/store"
)

type App struct {
	*store.Store
	*client.Client
	config.Config
}
