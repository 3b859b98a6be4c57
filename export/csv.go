// Package export renders collected submissions for offline review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/adhamo/formdesk/model"
)

// ResponsesCSV writes one row per submission: Response ID, Phone Number,
// Submitted At, then one column per form field in form order. Labels are
// resolved in the requested language; multi-select answers are joined with
// "; ". Quoting follows RFC 4180 (embedded quotes doubled).
func ResponsesCSV(w io.Writer, form model.Form, submissions []model.Submission, lang model.Language) error {
	cw := csv.NewWriter(w)

	header := []string{"Response ID", "Phone Number", "Submitted At"}
	for _, f := range form.Fields {
		header = append(header, f.Label.Resolve(lang))
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, s := range submissions {
		row := []string{
			strconv.Itoa(s.ID),
			s.PhoneNumber,
			s.SubmittedAt.Format(time.RFC3339),
		}
		for _, f := range form.Fields {
			row = append(row, answerCell(s.ResponseData[f.ID]))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func answerCell(answer any) string {
	switch v := answer.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "; ")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = answerCell(item)
		}
		return strings.Join(parts, "; ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(answer)
}

var reNonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FileName derives a download file name from the form's English title.
func FileName(form model.Form) string {
	title := reNonAlnum.ReplaceAllString(form.Title.Resolve(model.LanguageEnglish), "_")
	title = strings.Trim(title, "_")
	if title == "" {
		title = fmt.Sprintf("form_%d", form.ID)
	}
	return title + "_responses.csv"
}
