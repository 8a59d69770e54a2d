package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core"
	"github.com/univxyz/transkrip/core/grade"
)

type gradeApi struct {
	svc      *grade.Service
	validate *validator.Validate
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *grade.Service, validate *validator.Validate) {
	api := gradeApi{svc: svc, validate: validate}

	g.POST("/grades", api.submit, jwt)

	sg := g.Group("/students/:nim")
	sg.GET("/grades", api.list)
	sg.GET("/grades/:code/:term", api.retrieve)
	sg.GET("/ips/:term", api.ips)
	sg.GET("/ipk", api.ipk)
	sg.GET("/semesters/:term", api.semesterDetail)
	sg.GET("/statistics", api.statistics)
	sg.GET("/audit", api.audit, jwt)
}

// Handlers

func (api *gradeApi) submit(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	res, err := api.svc.Submit(ctx.Request().Context(), data, claims.Username)
	if err != nil {
		return err
	}
	code := http.StatusCreated
	if res.Updated {
		code = http.StatusOK
	}
	return ctx.JSON(code, res)
}

func (api *gradeApi) list(ctx echo.Context) error {
	nim := ctx.Param("nim")
	if semStr := ctx.QueryParam("semester"); semStr != "" {
		sem, err := parseTerm(semStr)
		if err != nil {
			return err
		}
		recs, err := api.svc.List(ctx.Request().Context(), nim, sem)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, recs)
	}

	recs, err := api.svc.List(ctx.Request().Context(), nim)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	term, err := parseTerm(ctx.Param("term"))
	if err != nil {
		return err
	}
	rec, err := api.svc.Get(ctx.Request().Context(), ctx.Param("nim"), ctx.Param("code"), term)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *gradeApi) ips(ctx echo.Context) error {
	nim := ctx.Param("nim")
	term, err := parseTerm(ctx.Param("term"))
	if err != nil {
		return err
	}
	ips, err := api.svc.CalculateIPS(ctx.Request().Context(), nim, term)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"nim": nim, "semester": term, "ips": ips})
}

func (api *gradeApi) ipk(ctx echo.Context) error {
	nim := ctx.Param("nim")
	ipk, err := api.svc.CalculateIPK(ctx.Request().Context(), nim)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"nim": nim, "ipk": ipk, "predicate": grade.Classify(ipk)})
}

func (api *gradeApi) semesterDetail(ctx echo.Context) error {
	term, err := parseTerm(ctx.Param("term"))
	if err != nil {
		return err
	}
	detail, err := api.svc.SemesterDetail(ctx.Request().Context(), ctx.Param("nim"), term)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *gradeApi) statistics(ctx echo.Context) error {
	stats, err := api.svc.Statistics(ctx.Request().Context(), ctx.Param("nim"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *gradeApi) audit(ctx echo.Context) error {
	hist, err := api.svc.AuditHistory(ctx.Request().Context(), ctx.Param("nim"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, hist)
}

func parseTerm(s string) (int, error) {
	term, err := strconv.Atoi(s)
	if err != nil {
		return 0, core.NewValidationError(errors.New("term must be a number"),
			core.FieldError{Field: "term", Error: "term must be a number"})
	}
	return term, nil
}
