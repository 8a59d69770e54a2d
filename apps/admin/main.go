package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/univxyz/transkrip/core"
	"github.com/univxyz/transkrip/core/course"
	"github.com/univxyz/transkrip/core/grade"
	"github.com/univxyz/transkrip/core/staff"
	"github.com/univxyz/transkrip/core/student"
	emailsvc "github.com/univxyz/transkrip/services/email"
	"github.com/univxyz/transkrip/storage/database"
	sqlxrepos "github.com/univxyz/transkrip/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	sdb := sqlx.NewDb(db, "postgres")
	studentRepo := sqlxrepos.NewStudentRepository(sdb)

	cli := commandLine{
		db:     db,
		stfSvc: staff.NewService(sqlxrepos.NewStaffRepository(sdb)),
		stdSvc: student.NewService(studentRepo),
		crsSvc: course.NewService(sqlxrepos.NewCourseRepository(sdb)),
		grdSvc: grade.NewService(sqlxrepos.NewGradeRepository(sdb), studentRepo, emailsvc.NewConsoleService()),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
