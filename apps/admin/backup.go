package main

import (
	"io/ioutil"

	"github.com/pkg/errors"
)

func (cli *commandLine) backup(out string) error {
	doc, err := cli.db.Dump()
	if err != nil {
		return errors.Wrap(err, "dumping records")
	}
	if err := ioutil.WriteFile(out, doc, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	logger.Printf("backup written to %s", out)
	return nil
}

func (cli *commandLine) restore(in string) error {
	doc, err := ioutil.ReadFile(in)
	if err != nil {
		return errors.Wrapf(err, "reading %s", in)
	}
	if err := cli.db.Restore(doc); err != nil {
		return errors.Wrap(err, "restoring records")
	}
	logger.Printf("records restored from %s", in)
	return nil
}
