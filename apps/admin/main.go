package main

import (
	"context"
	"log"
	"os"

	"github.com/Br01t/feedback-fort/core"
	logsvc "github.com/Br01t/feedback-fort/services/logger"
	"github.com/Br01t/feedback-fort/storage"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(false)

	// set up storage
	ctx := context.Background()
	store, err := storage.Open(ctx, conf, appLogger)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		conf:    conf,
		usrRepo: store.Users,
	}
	err = cli.run(os.Args)
	if cErr := store.Close(ctx); cErr != nil {
		logger.Printf("closing storage: %v", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
