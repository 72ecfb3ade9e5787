package main

import (
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/fredgona305-cmyk/kjs/core"
	"github.com/fredgona305-cmyk/kjs/core/school"
	emailsvc "github.com/fredgona305-cmyk/kjs/services/email"
	"github.com/fredgona305-cmyk/kjs/storage/database/kvdb"
	"github.com/fredgona305-cmyk/kjs/storage/kv"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	logger = log.New(ioutil.Discard, "", 0)

	conf := new(core.Config)
	conf.TestMode = true
	conf.AppName = "KJS"

	db, err := kvdb.Open(kv.OpenMemStore())
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	return &commandLine{
		db:  db,
		svc: school.NewService(kvdb.NewSchoolRepository(db), emailsvc.NewConsoleService(conf), conf),
		v:   school.NewValidators(),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	idNo    string
	wantErr error
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addteacher"}, wantErr: errHelp},
		{name: "name but no tsc", args: []string{"addteacher", "-name", "Mr. Kamau"}, wantErr: errHelp},
		{name: "no id number", args: []string{"addteacher", "-name", "Mr. Kamau", "-tsc", "TSC123"}, wantErr: errHelp},
		{name: "ok", args: []string{"addteacher", "-name", "Mr. Kamau", "-tsc", "TSC123"}, idNo: "12345678"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.idNo), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	teachers, err := cli.svc.QueryAllTeachers()
	if err != nil {
		t.Fatalf("QueryAllTeachers() error = %v", err)
	}
	if len(teachers) != 1 || teachers[0].TSC != "TSC123" {
		t.Errorf("teachers = %+v, want the one registered", teachers)
	}
}

func Test_commandLine_setHeadteacher(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("11111111"), nil }

	args := []string{"admin", "sethead", "-name", "Mrs. Achieng", "-tsc", "TSC100", "-contact", "0711000000"}
	if err := cli.run(args); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	ht, err := cli.svc.GetHeadteacher()
	if err != nil || ht.Name != "Mrs. Achieng" {
		t.Errorf("GetHeadteacher() = %+v, %v", ht, err)
	}

	// replacement
	args = []string{"admin", "sethead", "-name", "Mr. Mwangi", "-tsc", "TSC200", "-contact", "0722000000"}
	if err := cli.run(args); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	ht, _ = cli.svc.GetHeadteacher()
	if ht.Name != "Mr. Mwangi" {
		t.Errorf("GetHeadteacher() after replacement = %+v", ht)
	}
}

func Test_commandLine_backupRestore(t *testing.T) {
	cli := setup(t)

	if _, err := cli.svc.CreateStudent(school.NewStudent{
		Name: "Amina Yusuf", AssessmentNo: "KPS001", Grade: "Grade 3", Class: "East",
	}); err != nil {
		t.Fatalf("seeding student: %v", err)
	}

	dir, err := ioutil.TempDir("", "kjsbackup")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "backup.json")

	if err := cli.run([]string{"admin", "backup", "-out", out}); err != nil {
		t.Fatalf("backup error = %v", err)
	}

	// restore into a fresh database
	cli2 := setup(t)
	if err := cli2.run([]string{"admin", "restore", "-in", out}); err != nil {
		t.Fatalf("restore error = %v", err)
	}
	st, err := cli2.svc.GetStudentByAssessmentNo("KPS001")
	if err != nil || st.Name != "Amina Yusuf" {
		t.Errorf("restored student = %+v, %v", st, err)
	}

	if err := cli2.run([]string{"admin", "restore"}); err != errHelp {
		t.Errorf("restore without -in: error = %v, wantErr %v", err, errHelp)
	}
}
