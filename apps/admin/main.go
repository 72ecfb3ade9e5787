package main

import (
	"log"
	"os"

	"github.com/fredgona305-cmyk/kjs/core"
	"github.com/fredgona305-cmyk/kjs/core/school"
	emailsvc "github.com/fredgona305-cmyk/kjs/services/email"
	"github.com/fredgona305-cmyk/kjs/storage/database/kvdb"
	"github.com/fredgona305-cmyk/kjs/storage/kv"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	store, err := openStore(conf)
	errAndDie(err)
	db, err := kvdb.Open(store)
	errAndDie(err)
	defer db.Close()

	cli := commandLine{
		db:  db,
		svc: school.NewService(kvdb.NewSchoolRepository(db), emailsvc.NewConsoleService(conf), conf),
		v:   school.NewValidators(),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func openStore(conf *core.Config) (kv.Store, error) {
	if conf.Storage.Backend == "postgres" {
		return kv.OpenPostgresStore(conf)
	}
	return kv.OpenFileStore(conf.Storage.DataDir)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
