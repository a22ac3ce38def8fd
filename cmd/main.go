package main

import (
	"github.com/corray333/backend-labs/status/internal/app"
	"github.com/corray333/backend-labs/status/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
