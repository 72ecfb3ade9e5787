package main

import "github.com/fredgona305-cmyk/kjs/core/school"

func (cli *commandLine) addTeacher(name, tsc, idNo, gender, contact string) error {
	nt := school.NewTeacher{
		Name:    name,
		TSC:     tsc,
		IDNo:    idNo,
		Gender:  gender,
		Contact: contact,
	}
	if err := nt.Validate(cli.v); err != nil {
		return err
	}
	t, err := cli.svc.CreateTeacher(nt)
	if err != nil {
		return err
	}
	logger.Printf("teacher %q registered with ID %d", t.Name, t.ID)
	return nil
}

func (cli *commandLine) setHeadteacher(name, tsc, idNo, contact string) error {
	nh := school.NewHeadteacher{
		Name:    name,
		TSC:     tsc,
		IDNo:    idNo,
		Contact: contact,
	}
	if err := nh.Validate(cli.v); err != nil {
		return err
	}
	ht, err := cli.svc.SetHeadteacher(nh)
	if err != nil {
		return err
	}
	logger.Printf("headteacher set to %q", ht.Name)
	return nil
}
