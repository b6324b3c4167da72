package main

import (
	"os"
	_ "time/tzdata" // ORDER_TIMEZONE в контейнерах без zoneinfo

	"github.com/DRSN-tech/futburguer-cart/internal/app"
	config "github.com/DRSN-tech/futburguer-cart/internal/cfg"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run возвращает код выхода; буфер логгера сбрасывается до os.Exit
func run() int {
	log := logger.NewZapLogger()
	defer log.Sync()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		return 1
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize cart service")
		return 1
	}

	if err := application.Run(); err != nil {
		return 1
	}

	return 0
}
