package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core/grade"
	"github.com/univxyz/transkrip/core/student"
)

type studentApi struct {
	svc      *student.Service
	gradeSvc *grade.Service
	renderer grade.DocumentRenderer
	validate *validator.Validate
}

func registerStudentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *student.Service,
	gradeSvc *grade.Service,
	renderer grade.DocumentRenderer,
	validate *validator.Validate,
) {
	api := studentApi{svc: svc, gradeSvc: gradeSvc, renderer: renderer, validate: validate}

	g.GET("/students", api.query)
	g.POST("/students", api.create, jwt)

	dg := g.Group("/students/:nim")
	dg.GET("", api.retrieve)
	dg.GET("/transcript", api.transcript)
	dg.GET("/transcript/document", api.transcriptDocument)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetByNIM(ctx.Request().Context(), ctx.Param("nim"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) transcript(ctx echo.Context) error {
	tr, err := api.gradeSvc.AssembleTranscript(ctx.Request().Context(), ctx.Param("nim"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tr)
}

// transcriptDocument renders the printable transcript via the document
// renderer collaborator.
func (api *studentApi) transcriptDocument(ctx echo.Context) error {
	tr, err := api.gradeSvc.AssembleTranscript(ctx.Request().Context(), ctx.Param("nim"))
	if err != nil {
		return err
	}
	doc, err := api.renderer.Render(tr, time.Now())
	if err != nil {
		return errors.Wrap(err, "rendering transcript document")
	}
	return ctx.HTMLBlob(http.StatusOK, doc)
}
