// Package renderersvc renders assembled transcripts into printable documents.
package renderersvc

import (
	"bytes"
	"html/template"
	"time"

	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core/grade"
	appfs "github.com/univxyz/transkrip/fs"
)

type htmlRenderer struct {
	tmpl *template.Template
}

var _ grade.DocumentRenderer = (*htmlRenderer)(nil)

// NewHTMLRenderer loads the embedded transcript template.
func NewHTMLRenderer() (grade.DocumentRenderer, error) {
	tmpl, err := template.ParseFS(appfs.FS, "templates/transcript.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing transcript template")
	}
	return &htmlRenderer{tmpl: tmpl}, nil
}

type documentData struct {
	Transcript grade.Transcript
	PrintedAt  string
}

func (r *htmlRenderer) Render(t grade.Transcript, printedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	data := documentData{
		Transcript: t,
		PrintedAt:  printedAt.Format("02 January 2006 - 15:04:05"),
	}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "rendering transcript")
	}
	return buf.Bytes(), nil
}
