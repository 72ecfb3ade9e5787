package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fredgona305-cmyk/kjs/apps/api/echo"
	"github.com/fredgona305-cmyk/kjs/core"
	"github.com/fredgona305-cmyk/kjs/core/school"
	emailsvc "github.com/fredgona305-cmyk/kjs/services/email"
	logsvc "github.com/fredgona305-cmyk/kjs/services/logger"
	"github.com/fredgona305-cmyk/kjs/storage/database/kvdb"
	"github.com/fredgona305-cmyk/kjs/storage/kv"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %+v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	store, err := openStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening store: %v", err), err)
	}
	db, err := kvdb.Open(store)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	schoolSvc := school.NewService(kvdb.NewSchoolRepository(db), mailSvc, conf)
	validators := school.NewValidators()

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("%s API starting on %s", conf.AppName, conf.ServerAddress()))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		SchoolSvc:  schoolSvc,
		Validators: validators,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err := server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func openStore(conf *core.Config) (kv.Store, error) {
	if conf.Storage.Backend == "postgres" {
		return kv.OpenPostgresStore(conf)
	}
	return kv.OpenFileStore(conf.Storage.DataDir)
}
