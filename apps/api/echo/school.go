package echoapi

import (
	"net/http"
	"net/mail"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fredgona305-cmyk/kjs/core"
	"github.com/fredgona305-cmyk/kjs/core/school"
)

type schoolApi struct {
	svc  *school.Service
	v    *school.Validators
	conf *core.Config
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service, v *school.Validators, conf *core.Config) {
	api := schoolApi{svc: svc, v: v, conf: conf}

	// un-authed endpoints
	ag := g.Group("/auth")
	ag.POST("/admin-login", api.adminLogin)
	ag.POST("/staff-login", api.staffLogin)
	ag.POST("/parent-login", api.parentLogin)

	staff := roleMiddleware(RoleAdmin, RoleHeadteacher)

	tg := g.Group("/teachers", jwt, staff)
	tg.GET("", api.queryTeachers)
	tg.POST("", api.createTeacher, roleMiddleware(RoleAdmin))
	tg.GET("/:id", api.retrieveTeacher)
	tg.PUT("/:id", api.updateTeacher, roleMiddleware(RoleAdmin))
	tg.DELETE("/:id", api.destroyTeacher, roleMiddleware(RoleAdmin))

	hg := g.Group("/headteacher", jwt)
	hg.GET("", api.retrieveHeadteacher, staff)
	hg.PUT("", api.setHeadteacher, roleMiddleware(RoleAdmin))

	sg := g.Group("/students", jwt)
	sg.GET("", api.queryStudents, roleMiddleware(RoleAdmin, RoleHeadteacher, RoleTeacher))
	sg.POST("", api.createStudent, staff)
	sg.GET("/:id", api.retrieveStudent, staff)
	sg.PUT("/:id", api.updateStudent, staff)
	sg.DELETE("/:id", api.destroyStudent, roleMiddleware(RoleAdmin))

	subg := g.Group("/subjects/:curriculum", jwt)
	subg.GET("", api.querySubjects, roleMiddleware(RoleAdmin, RoleHeadteacher, RoleTeacher))
	subg.POST("", api.createSubject, staff)
	subg.GET("/:id", api.retrieveSubject, staff)
	subg.PUT("/:id", api.updateSubject, staff)
	subg.DELETE("/:id", api.destroySubject, roleMiddleware(RoleAdmin))

	asg := g.Group("/assignments", jwt, staff)
	asg.GET("", api.queryAssignments)
	asg.POST("", api.createAssignment)
	asg.DELETE("/:id", api.destroyAssignment)

	mg := g.Group("/assessments", jwt)
	mg.GET("", api.queryAssessments, staff)
	mg.POST("", api.createAssessment, staff)
	mg.POST("/bulk", api.recordMarks, roleMiddleware(RoleTeacher))
	mg.DELETE("/:id", api.destroyAssessment, roleMiddleware(RoleAdmin))

	// the teacher portal's own-scope lookups
	myg := g.Group("/my", jwt, roleMiddleware(RoleTeacher))
	myg.GET("/subjects", api.mySubjects)
	myg.GET("/classes", api.myClasses)
	myg.GET("/students", api.myStudents)

	mlg := g.Group("/markslists", jwt, staff)
	mlg.GET("", api.queryMarksLists)
	mlg.POST("", api.createMarksList)
	mlg.DELETE("/:id", api.destroyMarksList)

	ttg := g.Group("/timetable", jwt)
	ttg.GET("", api.queryTimetable, roleMiddleware(RoleAdmin, RoleHeadteacher, RoleTeacher, RoleParent))
	ttg.POST("", api.createTimetableEntry, staff)
	ttg.DELETE("/:id", api.destroyTimetableEntry, staff)

	rg := g.Group("/reports", jwt)
	rg.GET("/marklist", api.markList, roleMiddleware(RoleAdmin, RoleHeadteacher, RoleTeacher))
	rg.POST("/reportcard", api.reportCard, roleMiddleware(RoleAdmin, RoleHeadteacher, RoleTeacher, RoleParent))
	rg.POST("/reportcard/email", api.emailReportCard, roleMiddleware(RoleAdmin, RoleHeadteacher, RoleTeacher))
}

// Auth handlers

func (api *schoolApi) adminLogin(ctx echo.Context) error {
	var data AdminLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminLoginRequest")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	if data.Username != api.conf.Admin.Username || data.Password != api.conf.Admin.Password {
		return errAuthenticationFailed
	}
	return api.loginResponse(ctx, GetClaims(data.Username, "Administrator", RoleAdmin))
}

func (api *schoolApi) staffLogin(ctx echo.Context) error {
	var data StaffLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StaffLoginRequest")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	if ht, err := api.svc.AuthenticateHeadteacher(data.TSC, data.IDNo); err == nil {
		return api.loginResponse(ctx, GetClaims(ht.TSC, ht.Name, RoleHeadteacher))
	}
	t, err := api.svc.AuthenticateTeacher(data.TSC, data.IDNo)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating teacher")
	}
	return api.loginResponse(ctx, GetClaims(t.TSC, t.Name, RoleTeacher))
}

func (api *schoolApi) parentLogin(ctx echo.Context) error {
	var data ParentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ParentLoginRequest")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	st, err := api.svc.GetStudentByAssessmentNo(data.AssessmentNo)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding student by assessment number")
	}
	return api.loginResponse(ctx, GetClaims(st.AssessmentNo, st.Name, RoleParent))
}

func (api *schoolApi) loginResponse(ctx echo.Context, claims *Claims) error {
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Name: claims.Name, Role: claims.Role})
}

// Teacher handlers

func (api *schoolApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.QueryAllTeachers()
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *schoolApi) createTeacher(ctx echo.Context) error {
	var data school.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	t, err := api.svc.CreateTeacher(data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *schoolApi) retrieveTeacher(ctx echo.Context) error {
	t, err := api.getTeacher(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *schoolApi) updateTeacher(ctx echo.Context) error {
	orig, err := api.getTeacher(ctx)
	if err != nil {
		return err
	}

	var data school.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(orig, api.v); err != nil {
		return err
	}

	t, err := api.svc.UpdateTeacher(orig, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *schoolApi) destroyTeacher(ctx echo.Context) error {
	t, err := api.getTeacher(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteTeacher(t.ID); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) getTeacher(ctx echo.Context) (school.Teacher, error) {
	id, err := pathID(ctx)
	if err != nil {
		return school.Teacher{}, err
	}
	t, err := api.svc.GetTeacherByID(id)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return school.Teacher{}, errHttpNotFound
		}
		return school.Teacher{}, errors.Wrap(err, "finding teacher by ID")
	}
	return t, nil
}

// Headteacher handlers

func (api *schoolApi) retrieveHeadteacher(ctx echo.Context) error {
	ht, err := api.svc.GetHeadteacher()
	if err != nil {
		return errors.Wrap(err, "getting headteacher")
	}
	return ctx.JSON(http.StatusOK, ht)
}

func (api *schoolApi) setHeadteacher(ctx echo.Context) error {
	var data school.NewHeadteacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHeadteacher")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	ht, err := api.svc.SetHeadteacher(data)
	if err != nil {
		return errors.Wrap(err, "setting headteacher")
	}
	return ctx.JSON(http.StatusOK, ht)
}

// Student handlers

func (api *schoolApi) queryStudents(ctx echo.Context) error {
	var filter school.StudentFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to StudentFilter")
	}

	if filter.IsEmpty() {
		students, err := api.svc.QueryAllStudents()
		if err != nil {
			return errors.Wrap(err, "querying students")
		}
		return ctx.JSON(http.StatusOK, students)
	}

	students, err := api.svc.FilterStudents(filter)
	if err != nil {
		return errors.Wrap(err, "filtering students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *schoolApi) createStudent(ctx echo.Context) error {
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	st, err := api.svc.CreateStudent(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *schoolApi) retrieveStudent(ctx echo.Context) error {
	st, err := api.getStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *schoolApi) updateStudent(ctx echo.Context) error {
	orig, err := api.getStudent(ctx)
	if err != nil {
		return err
	}

	var data school.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(orig, api.v); err != nil {
		return err
	}

	st, err := api.svc.UpdateStudent(orig, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *schoolApi) destroyStudent(ctx echo.Context) error {
	st, err := api.getStudent(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteStudent(st.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) getStudent(ctx echo.Context) (school.Student, error) {
	id, err := pathID(ctx)
	if err != nil {
		return school.Student{}, err
	}
	st, err := api.svc.GetStudentByID(id)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return school.Student{}, errHttpNotFound
		}
		return school.Student{}, errors.Wrap(err, "finding student by ID")
	}
	return st, nil
}

// Subject handlers

func (api *schoolApi) querySubjects(ctx echo.Context) error {
	cur, err := pathCurriculum(ctx)
	if err != nil {
		return err
	}
	subjects, err := api.svc.QueryAllSubjects(cur)
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *schoolApi) createSubject(ctx echo.Context) error {
	cur, err := pathCurriculum(ctx)
	if err != nil {
		return err
	}

	var data school.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	subj, err := api.svc.CreateSubject(cur, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, subj)
}

func (api *schoolApi) retrieveSubject(ctx echo.Context) error {
	_, subj, err := api.getSubject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subj)
}

func (api *schoolApi) updateSubject(ctx echo.Context) error {
	cur, orig, err := api.getSubject(ctx)
	if err != nil {
		return err
	}

	var data school.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err := data.Validate(orig, api.v); err != nil {
		return err
	}

	subj, err := api.svc.UpdateSubject(cur, orig, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, subj)
}

func (api *schoolApi) destroySubject(ctx echo.Context) error {
	cur, subj, err := api.getSubject(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteSubject(cur, subj.ID); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) getSubject(ctx echo.Context) (school.Curriculum, school.Subject, error) {
	cur, err := pathCurriculum(ctx)
	if err != nil {
		return cur, school.Subject{}, err
	}
	id, err := pathID(ctx)
	if err != nil {
		return cur, school.Subject{}, err
	}
	subj, err := api.svc.GetSubjectByID(cur, id)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return cur, school.Subject{}, errHttpNotFound
		}
		return cur, school.Subject{}, errors.Wrap(err, "finding subject by ID")
	}
	return cur, subj, nil
}

// Assignment handlers

func (api *schoolApi) queryAssignments(ctx echo.Context) error {
	assignments, err := api.svc.QueryAllAssignments()
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *schoolApi) createAssignment(ctx echo.Context) error {
	var data school.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	a, err := api.svc.CreateAssignment(data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *schoolApi) destroyAssignment(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteAssignment(id); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Assessment handlers

func (api *schoolApi) queryAssessments(ctx echo.Context) error {
	var filter school.AssessmentFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to AssessmentFilter")
	}

	assessments, err := api.svc.FilterAssessments(filter)
	if err != nil {
		return errors.Wrap(err, "filtering assessments")
	}
	return ctx.JSON(http.StatusOK, assessments)
}

func (api *schoolApi) createAssessment(ctx echo.Context) error {
	var data school.NewAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssessment")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	a, err := api.svc.CreateAssessment(data)
	if err != nil {
		return errors.Wrap(err, "creating assessment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *schoolApi) recordMarks(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data school.MarksEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarksEntry")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	saved, err := api.svc.RecordMarks(claims.Name, data)
	if err != nil {
		return errors.Wrap(err, "recording marks")
	}
	return ctx.JSON(http.StatusCreated, saved)
}

func (api *schoolApi) destroyAssessment(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteAssessment(id); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting assessment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Teacher-scope handlers

func (api *schoolApi) mySubjects(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	subjects, err := api.svc.SubjectsForTeacher(claims.Name)
	if err != nil {
		return errors.Wrap(err, "querying teacher subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *schoolApi) myClasses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	classes, err := api.svc.ClassesForTeacher(claims.Name)
	if err != nil {
		return errors.Wrap(err, "querying teacher classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolApi) myStudents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	students, err := api.svc.StudentsForTeacherSubject(claims.Name, ctx.QueryParam("subject"))
	if err != nil {
		return errors.Wrap(err, "querying teacher students")
	}
	return ctx.JSON(http.StatusOK, students)
}

// Marks list registry handlers

func (api *schoolApi) queryMarksLists(ctx echo.Context) error {
	lists, err := api.svc.QueryAllMarksLists()
	if err != nil {
		return errors.Wrap(err, "querying marks lists")
	}
	return ctx.JSON(http.StatusOK, lists)
}

func (api *schoolApi) createMarksList(ctx echo.Context) error {
	var data school.NewMarksList
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMarksList")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	ml, err := api.svc.CreateMarksList(data)
	if err != nil {
		return errors.Wrap(err, "creating marks list")
	}
	return ctx.JSON(http.StatusCreated, ml)
}

func (api *schoolApi) destroyMarksList(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteMarksList(id); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting marks list")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Timetable handlers

func (api *schoolApi) queryTimetable(ctx echo.Context) error {
	if class := ctx.QueryParam("class"); class != "" {
		entries, err := api.svc.TimetableForClass(class)
		if err != nil {
			return errors.Wrap(err, "querying class timetable")
		}
		return ctx.JSON(http.StatusOK, entries)
	}

	entries, err := api.svc.QueryAllTimetable()
	if err != nil {
		return errors.Wrap(err, "querying timetable")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *schoolApi) createTimetableEntry(ctx echo.Context) error {
	var data school.NewTimetableEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTimetableEntry")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	entry, err := api.svc.CreateTimetableEntry(data)
	if err != nil {
		return errors.Wrap(err, "creating timetable entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *schoolApi) destroyTimetableEntry(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteTimetableEntry(id); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting timetable entry")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Report handlers

func (api *schoolApi) markList(ctx echo.Context) error {
	rpt, err := api.svc.MarkList(
		ctx.QueryParam("class"),
		ctx.QueryParam("term"),
		ctx.QueryParam("examType"),
		ctx.QueryParam("year"),
	)
	if err != nil {
		return errors.Wrap(err, "generating mark list")
	}
	return ctx.JSON(http.StatusOK, rpt)
}

func (api *schoolApi) reportCard(ctx echo.Context) error {
	var data school.ReportCardInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReportCardInput")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	// a parent may only view their own child's report
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if claims.Role == RoleParent && claims.Subject != data.AssessmentNo {
		return errHttpForbidden
	}

	rc, err := api.svc.ReportCard(data)
	if err != nil {
		return errors.Wrap(err, "generating report card")
	}
	return ctx.JSON(http.StatusOK, rc)
}

func (api *schoolApi) emailReportCard(ctx echo.Context) error {
	var data EmailReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailReportRequest")
	}
	if err := data.Validate(api.v); err != nil {
		return err
	}

	if _, err := api.svc.SendImprovementReport(data.ReportCardInput, mail.Address{Address: data.Email}); err != nil {
		return errors.Wrap(err, "emailing report card")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Report sent to " + data.Email + "."})
}

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

func pathCurriculum(ctx echo.Context) (school.Curriculum, error) {
	switch ctx.Param("curriculum") {
	case "lp":
		return school.LowerPrimary, nil
	case "up":
		return school.UpperPrimary, nil
	}
	return "", errHttpNotFound
}
