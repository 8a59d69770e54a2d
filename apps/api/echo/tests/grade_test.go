package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/univxyz/transkrip/core/grade"
)

func seedReferenceData(t *testing.T) {
	t.Helper()
	db.Reset()
	createStudent(t, "21001", "MUHAMMAD SECHAN AURIEL")
	createStudent(t, "21002", "PUTRI NURHALIZA")
	createCourse(t, "PBO101", "Pemrograman Berorientasi Objek", 3)
	createCourse(t, "DBMS101", "Sistem Basis Data", 3)
	createCourse(t, "WEB101", "Pengembangan Web", 4)
	createCourse(t, "ALSTD101", "Algoritma dan Struktur Data", 3)
}

func Test_gradeApi_submit(t *testing.T) {
	seedReferenceData(t)
	registrar := createStaff(t, "registrar1")
	token := getToken(t, registrar)

	body := func(nim, code string, semester int, letter string, attendance float64) []byte {
		return marshallObj(t, map[string]interface{}{
			"nim": nim, "course_code": code, "semester": semester,
			"letter_grade": letter, "presence_percentage": attendance,
		})
	}

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/grades", body("21001", "PBO101", 1, "A", 95))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)}, rec)
	})

	t.Run("Create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/grades", token, body("21001", "PBO101", 1, "A", 95))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var res grade.SubmitResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if res.Updated {
			t.Error("Updated = true, want false")
		}
		if res.Record.Points != 4.0 {
			t.Errorf("Points = %v, want 4.0", res.Record.Points)
		}
		if res.Record.CourseName != "Pemrograman Berorientasi Objek" {
			t.Errorf("CourseName = %q", res.Record.CourseName)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/grades", token, body("21001", "PBO101", 1, "B", 90))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var res grade.SubmitResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !res.Updated {
			t.Error("Updated = false, want true")
		}
		if res.Record.Letter != grade.LetterB {
			t.Errorf("Letter = %v, want B", res.Record.Letter)
		}

		// the actor from the token ends up on the audit entry
		req, rec = newAuthRequest(http.MethodGet, "/v1/students/21001/audit", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("audit code = %v; body: %s", rec.Code, rec.Body.String())
		}
		var hist []grade.AuditRow
		if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(hist) != 1 {
			t.Fatalf("len(hist) = %d, want 1", len(hist))
		}
		if hist[0].ChangedBy != "registrar1" {
			t.Errorf("ChangedBy = %q, want %q", hist[0].ChangedBy, "registrar1")
		}
		if hist[0].Reason != "grade updated" {
			t.Errorf("Reason = %q, want %q", hist[0].Reason, "grade updated")
		}
	})

	tests := []httpTest{
		{
			name: "Low attendance", body: body("21001", "DBMS101", 1, "A", 70),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"presence_percentage": "attendance below 75% threshold"}),
		},
		{
			name: "Invalid letter", body: body("21001", "DBMS101", 1, "F", 95),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"letter_grade": "invalid letter grade"}),
		},
		{
			name: "Attendance out of range", body: body("21001", "DBMS101", 1, "A", 105),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"presence_percentage": "attendance percentage out of range"}),
		},
		{
			name: "Bad term", body: body("21001", "DBMS101", 0, "A", 95),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"semester": "term must be positive"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/grades", token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_gradeApi_retrieve(t *testing.T) {
	seedReferenceData(t)
	rec1 := createGrade(t, "21001", "PBO101", 1, grade.LetterA, 95)

	tests := []httpTest{
		{name: "Get", path: "/v1/students/21001/grades/PBO101/1", wantCode: http.StatusOK, wantData: marshallObj(t, rec1)},
		{name: "Unknown course", path: "/v1/students/21001/grades/NET101/1", wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{name: "Unknown semester", path: "/v1/students/21001/grades/PBO101/2", wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)},
		{
			name: "Bad term", path: "/v1/students/21001/grades/PBO101/one", wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"term": "term must be a number"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_gradeApi_list(t *testing.T) {
	seedReferenceData(t)
	rec1 := createGrade(t, "21001", "PBO101", 1, grade.LetterA, 95)
	rec2 := createGrade(t, "21001", "WEB101", 1, grade.LetterB, 88)
	rec3 := createGrade(t, "21001", "DBMS101", 2, grade.LetterA, 92)

	tests := []httpTest{
		{name: "All semesters", path: "/v1/students/21001/grades", wantCode: http.StatusOK, wantData: marshallObj(t, []interface{}{rec1, rec2, rec3})},
		{name: "One semester", path: "/v1/students/21001/grades?semester=1", wantCode: http.StatusOK, wantData: marshallObj(t, []interface{}{rec1, rec2})},
		{name: "No grades", path: "/v1/students/21002/grades", wantCode: http.StatusOK, wantData: []byte("[]")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_gradeApi_ips(t *testing.T) {
	seedReferenceData(t)

	// (4×3 + 4×3 + 3×4 + 4×3) / 13 = 4.0
	createGrade(t, "21001", "PBO101", 1, grade.LetterA, 95)
	createGrade(t, "21001", "DBMS101", 1, grade.LetterA, 92)
	createGrade(t, "21001", "WEB101", 1, grade.LetterB, 88)
	createGrade(t, "21001", "ALSTD101", 1, grade.LetterA, 90)

	tests := []httpTest{
		{
			name: "Perfect semester", path: "/v1/students/21001/ips/1", wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"nim": "21001", "semester": 1, "ips": 4.0}),
		},
		{
			name: "Empty semester", path: "/v1/students/21001/ips/2", wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"nim": "21001", "semester": 2, "ips": 0.0}),
		},
		{
			name: "Bad term", path: "/v1/students/21001/ips/abc", wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"term": "term must be a number"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_gradeApi_ipk(t *testing.T) {
	seedReferenceData(t)

	// PBO101 retaken; the A wins: (4×3 + 3×3) / 6 = 3.5
	createGrade(t, "21001", "PBO101", 1, grade.LetterC, 80)
	createGrade(t, "21001", "DBMS101", 1, grade.LetterB, 85)
	createGrade(t, "21001", "PBO101", 2, grade.LetterA, 95)

	tests := []httpTest{
		{
			name: "Dedup highest", path: "/v1/students/21001/ipk", wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"nim": "21001", "ipk": 3.5, "predicate": grade.PredicateCumLaude}),
		},
		{
			name: "No grades", path: "/v1/students/21002/ipk", wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"nim": "21002", "ipk": 0.0, "predicate": grade.PredicateKurang}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_gradeApi_statistics(t *testing.T) {
	seedReferenceData(t)

	createGrade(t, "21001", "PBO101", 1, grade.LetterE, 80)
	createGrade(t, "21001", "PBO101", 2, grade.LetterA, 95) // retake counts twice here
	createGrade(t, "21001", "DBMS101", 1, grade.LetterB, 85)

	req, rec := newRequest(http.MethodGet, "/v1/students/21001/statistics")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, grade.Statistics{
			TotalCourses: 3, PassedCourses: 2, FailedCourses: 1,
			TotalSKS: 9, PassedSKS: 6, AverageGrade: 2.33,
		}),
	}, rec)
}

func Test_gradeApi_semesterDetail(t *testing.T) {
	seedReferenceData(t)

	rec1 := createGrade(t, "21001", "DBMS101", 1, grade.LetterC, 80)
	rec2 := createGrade(t, "21001", "PBO101", 1, grade.LetterA, 95)
	rec3 := createGrade(t, "21001", "WEB101", 1, grade.LetterE, 76)

	req, rec := newRequest(http.MethodGet, "/v1/students/21001/semesters/1")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marshallObj(t, grade.SemesterDetail{
			Semester: 1,
			Courses:  []grade.Record{rec1, rec2, rec3},
			IPS:      3.0,
			TotalSKS: 10, PassedSKS: 6, FailedCourses: 1,
			AverageGrade: 2.0,
		}),
	}, rec)
}

func Test_gradeApi_audit_authRequired(t *testing.T) {
	seedReferenceData(t)

	req, rec := newRequest(http.MethodGet, "/v1/students/21001/audit")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)}, rec)
}
