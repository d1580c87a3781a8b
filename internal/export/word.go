package export

import (
	"html/template"
	"io"

	"github.com/mind-engage/mindengage-qpaper/internal/paper"
)

var wordTmpl = template.Must(template.New("word").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{if .Paper.PaperName}}{{.Paper.PaperName}}{{else}}Question Paper{{end}}</title>
<style>
body { font-family: 'Times New Roman', serif; margin: 1in; line-height: 1.5; font-size: 12pt; }
.header { text-align: center; margin-bottom: 40px; border-bottom: 2px solid #000; padding-bottom: 20px; }
.college-info { margin-bottom: 10px; }
.question { margin-bottom: 20px; page-break-inside: avoid; }
.question-text { margin-bottom: 8px; }
.question-number { font-weight: bold; margin-right: 8px; }
.meta { font-size: 10pt; color: #555; margin-top: 5px; font-style: italic; }
.instructions { margin-bottom: 30px; padding: 15px; background-color: #f5f5f5; border: 1px solid #ddd; }
.section { margin-top: 30px; margin-bottom: 15px; font-weight: bold; border-bottom: 1px solid #000; padding-bottom: 5px; }
.total-marks { text-align: right; font-weight: bold; margin-top: 40px; border-top: 1px solid #000; padding-top: 10px; }
</style>
</head>
<body>
<div class="header">
  <div class="college-info">
    <h2>{{.Pres.CollegeName}}</h2>
    <h3>{{.Pres.Program}}</h3>
  </div>
  <h1>{{if .Paper.PaperName}}{{.Paper.PaperName}}{{else}}QUESTION PAPER{{end}}</h1>
  <h3>{{.Paper.Subject}}</h3>
  <h4>Semester: {{.Pres.Semester}} | {{.Pres.ExaminationType}} | {{.Pres.MonthYear}}</h4>
  <h4>Time: {{.Pres.Time}} &nbsp;&nbsp;&nbsp; Maximum Marks: {{.Paper.TotalMarks}}</h4>
  <p><strong>Common To:</strong> {{.Pres.CommonTo}}</p>
</div>
<div class="instructions">
  <strong>Instructions:</strong>
  <ol>
    <li>{{.Pres.Note}}</li>
    <li>Figures to the right indicate full marks</li>
    <li>Assume suitable data if necessary</li>
    <li>Mobile phones and other electronic gadgets are not permitted</li>
  </ol>
</div>
{{range .Sections}}<div class="section">{{.Name}}</div>
{{range .Questions}}<div class="question">
  <div class="question-text">
    <span class="question-number">Q{{.N}}.</span>
    {{.Text}}
    <strong>[{{.Marks}} Marks]</strong>
  </div>
  <div class="meta">Unit: {{.Unit}} | CO: {{.CO}} | Bloom's Level: {{.BL}}</div>
</div>
{{end}}{{end}}<div class="total-marks">Total Marks: {{.Paper.TotalMarks}}</div>
</body>
</html>
`))

func renderWord(w io.Writer, d Document) error {
	return wordTmpl.Execute(w, struct {
		Paper    paper.Paper
		Pres     Presentation
		Sections []Section
	}{d.Paper, d.Presentation.Merge(DefaultPresentation()), Sections(d.Paper.Questions)})
}
