package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/fredgona305-cmyk/kjs/core/school"
	"github.com/fredgona305-cmyk/kjs/storage/database/kvdb"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db  *kvdb.DB
	svc *school.Service
	v   *school.Validators
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addteacher -name NAME -tsc TSC [-gender GENDER] [-contact CONTACT] - register a teacher; the national ID is prompted next")
	fmt.Println("  sethead -name NAME -tsc TSC -contact CONTACT - install or replace the headteacher; the national ID is prompted next")
	fmt.Println("  backup [-out FILE] - write every record collection to a single JSON document")
	fmt.Println("  restore -in FILE - replace every record collection from a backup document")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addTeacherCmd := flag.NewFlagSet("addteacher", flag.ExitOnError)
	addTeacherName := addTeacherCmd.String("name", "", "The teacher's full name.")
	addTeacherTSC := addTeacherCmd.String("tsc", "", "The teacher's TSC number.")
	addTeacherGender := addTeacherCmd.String("gender", "", "Male or Female.")
	addTeacherContact := addTeacherCmd.String("contact", "", "A phone number or email.")

	setHeadCmd := flag.NewFlagSet("sethead", flag.ExitOnError)
	setHeadName := setHeadCmd.String("name", "", "The headteacher's full name.")
	setHeadTSC := setHeadCmd.String("tsc", "", "The headteacher's TSC number.")
	setHeadContact := setHeadCmd.String("contact", "", "A phone number or email.")

	backupCmd := flag.NewFlagSet("backup", flag.ExitOnError)
	backupOut := backupCmd.String("out", "backup.json", "The file to write the backup to.")

	restoreCmd := flag.NewFlagSet("restore", flag.ExitOnError)
	restoreIn := restoreCmd.String("in", "", "The backup file to restore from.")

	switch args[1] {
	case "addteacher":
		if err := addTeacherCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addTeacherName == "" || *addTeacherTSC == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		idNo, err := cli.promptIDNo()
		if err != nil {
			return err
		}
		if idNo == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		return cli.addTeacher(*addTeacherName, *addTeacherTSC, idNo, *addTeacherGender, *addTeacherContact)
	case "sethead":
		if err := setHeadCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setHeadName == "" || *setHeadTSC == "" || *setHeadContact == "" {
			setHeadCmd.Usage()
			return errHelp
		}
		idNo, err := cli.promptIDNo()
		if err != nil {
			return err
		}
		if idNo == "" {
			setHeadCmd.Usage()
			return errHelp
		}
		return cli.setHeadteacher(*setHeadName, *setHeadTSC, idNo, *setHeadContact)
	case "backup":
		if err := backupCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.backup(*backupOut)
	case "restore":
		if err := restoreCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *restoreIn == "" {
			restoreCmd.Usage()
			return errHelp
		}
		return cli.restore(*restoreIn)
	default:
		cli.printUsage()
		return errHelp
	}
}

// the national ID doubles as the staff login credential, so it is read
// without echo.
func (cli *commandLine) promptIDNo() (string, error) {
	fmt.Print("Enter national ID:")
	idNo, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(idNo), nil
}
