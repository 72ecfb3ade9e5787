package echoapi

import (
	"github.com/fredgona305-cmyk/kjs/core"
	"github.com/fredgona305-cmyk/kjs/core/school"
)

type (
	// AdminLoginRequest carries the admin portal credentials.
	AdminLoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	// StaffLoginRequest carries staff portal credentials. The headteacher
	// record is tried first, then the teacher roll.
	StaffLoginRequest struct {
		TSC  string `json:"tsc" validate:"required"`
		IDNo string `json:"idNo" validate:"required"`
	}

	// ParentLoginRequest identifies a parent by their child's assessment
	// number.
	ParentLoginRequest struct {
		AssessmentNo string `json:"assessmentNo" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	// EmailReportRequest asks for a report card to be generated and its
	// improvement summary mailed to a guardian address.
	EmailReportRequest struct {
		school.ReportCardInput
		Email string `json:"email" validate:"required,email"`
	}
)

func (r *AdminLoginRequest) Validate(v *school.Validators) error {
	r.Username = core.CleanString(r.Username)
	return v.Validate.Struct(r)
}

func (r *StaffLoginRequest) Validate(v *school.Validators) error {
	r.TSC = core.CleanString(r.TSC)
	r.IDNo = core.CleanString(r.IDNo)
	return v.Validate.Struct(r)
}

func (r *ParentLoginRequest) Validate(v *school.Validators) error {
	r.AssessmentNo = core.CleanString(r.AssessmentNo)
	return v.Validate.Struct(r)
}

func (r *EmailReportRequest) Validate(v *school.Validators) error {
	r.Email = core.CleanString(r.Email, true)
	r.AssessmentNo = core.CleanString(r.AssessmentNo)
	r.Comment = core.CleanString(r.Comment)
	return v.Validate.Struct(r)
}
