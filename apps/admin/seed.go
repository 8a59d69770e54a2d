package main

import (
	"context"

	"github.com/univxyz/transkrip/core/course"
	"github.com/univxyz/transkrip/core/grade"
	"github.com/univxyz/transkrip/core/student"
)

// seed loads a small demo dataset: three students, five courses and their
// first-semester grades. Safe to re-run; existing rows are skipped.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	students := []student.NewStudent{
		{NIM: "21001", Name: "MUHAMMAD SECHAN AURIEL", ProgramStudy: "Teknik Informatika", BatchYear: 2021},
		{NIM: "21002", Name: "PUTRI NURHALIZA", ProgramStudy: "Teknik Informatika", BatchYear: 2021},
		{NIM: "21003", Name: "RAKA ADITYA PRATAMA", ProgramStudy: "Teknik Informatika", BatchYear: 2021},
	}
	for _, ns := range students {
		if _, err := cli.stdSvc.GetByNIM(ctx, ns.NIM); err == nil {
			continue
		}
		if _, err := cli.stdSvc.Create(ctx, ns); err != nil {
			return err
		}
	}

	courses := []course.NewCourse{
		{Code: "PBO101", Name: "Pemrograman Berorientasi Objek", SKS: 3},
		{Code: "DBMS101", Name: "Sistem Basis Data", SKS: 3},
		{Code: "WEB101", Name: "Pengembangan Web", SKS: 4},
		{Code: "ALSTD101", Name: "Algoritma dan Struktur Data", SKS: 3},
		{Code: "NET101", Name: "Jaringan Komputer", SKS: 3},
	}
	for _, nc := range courses {
		if _, err := cli.crsSvc.GetByCode(ctx, nc.Code); err == nil {
			continue
		}
		if _, err := cli.crsSvc.Create(ctx, nc); err != nil {
			return err
		}
	}

	attendance := func(v float64) *float64 { return &v }
	grades := []grade.NewGrade{
		{NIM: "21001", CourseCode: "PBO101", Semester: 1, Letter: grade.LetterA, Attendance: attendance(95)},
		{NIM: "21001", CourseCode: "DBMS101", Semester: 1, Letter: grade.LetterA, Attendance: attendance(92)},
		{NIM: "21001", CourseCode: "WEB101", Semester: 1, Letter: grade.LetterB, Attendance: attendance(88)},
		{NIM: "21001", CourseCode: "ALSTD101", Semester: 1, Letter: grade.LetterA, Attendance: attendance(90)},
		{NIM: "21002", CourseCode: "PBO101", Semester: 1, Letter: grade.LetterB, Attendance: attendance(85)},
		{NIM: "21002", CourseCode: "DBMS101", Semester: 1, Letter: grade.LetterB, Attendance: attendance(87)},
		{NIM: "21002", CourseCode: "WEB101", Semester: 1, Letter: grade.LetterC, Attendance: attendance(75)},
		{NIM: "21002", CourseCode: "ALSTD101", Semester: 1, Letter: grade.LetterA, Attendance: attendance(91)},
		{NIM: "21003", CourseCode: "PBO101", Semester: 1, Letter: grade.LetterC, Attendance: attendance(78)},
		{NIM: "21003", CourseCode: "DBMS101", Semester: 1, Letter: grade.LetterD, Attendance: attendance(75)},
		{NIM: "21003", CourseCode: "WEB101", Semester: 1, Letter: grade.LetterC, Attendance: attendance(76)},
		{NIM: "21003", CourseCode: "NET101", Semester: 1, Letter: grade.LetterC, Attendance: attendance(77)},
	}
	for _, ng := range grades {
		if _, err := cli.grdSvc.Get(ctx, ng.NIM, ng.CourseCode, ng.Semester); err == nil {
			continue // resubmitting would record a correction
		}
		if _, err := cli.grdSvc.Submit(ctx, ng, "system"); err != nil {
			return err
		}
	}

	logger.Println("sample data populated successfully")
	return nil
}
