package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/univxyz/transkrip/apps/api/echo"
	"github.com/univxyz/transkrip/core"
	"github.com/univxyz/transkrip/core/course"
	"github.com/univxyz/transkrip/core/grade"
	"github.com/univxyz/transkrip/core/staff"
	"github.com/univxyz/transkrip/core/student"
	emailsvc "github.com/univxyz/transkrip/services/email"
	logsvc "github.com/univxyz/transkrip/services/logger"
	renderersvc "github.com/univxyz/transkrip/services/renderer"
	"github.com/univxyz/transkrip/storage/database"
	sqlxrepos "github.com/univxyz/transkrip/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	studentRepo := sqlxrepos.NewStudentRepository(db)
	stdSvc := student.NewService(studentRepo)
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	stfSvc := staff.NewService(sqlxrepos.NewStaffRepository(db))
	grdSvc := grade.NewService(sqlxrepos.NewGradeRepository(db), studentRepo, mailSvc)

	renderer, err := renderersvc.NewHTMLRenderer()
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing transcript templates: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Addr:       conf.ServerAddress(),
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		GradeSvc:   grdSvc,
		StudentSvc: stdSvc,
		CourseSvc:  crsSvc,
		StaffSvc:   stfSvc,
		Renderer:   renderer,
	})
	server.Start() // blocks until shutdown
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return sqlx.NewDb(db, "postgres"), nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
