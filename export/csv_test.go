package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adhamo/formdesk/model"
)

func exportForm() model.Form {
	return model.Form{
		ID: 7,
		FormDefinition: model.FormDefinition{
			Title: model.BilingualText{En: "Customer Survey!", Ar: "استبيان"},
			Fields: []model.FieldDefinition{
				{ID: "name", Type: model.FieldText, Label: model.BilingualText{En: "Name", Ar: "الاسم"}},
				{ID: "colors", Type: model.FieldCheckbox, Label: model.BilingualText{En: "Colors"},
					Options: []model.BilingualText{{En: "Red"}, {En: "Blue"}}},
			},
		},
	}
}

func TestResponsesCSV(t *testing.T) {
	submittedAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	submissions := []model.Submission{
		{
			ID:          1,
			PhoneNumber: "0501234567",
			ResponseData: map[string]any{
				"name":   `Omar "Abu" Khalid`,
				"colors": []any{"Red", "Blue"},
			},
			SubmittedAt: submittedAt,
		},
		{
			ID:           2,
			PhoneNumber:  "0507654321",
			ResponseData: map[string]any{},
			SubmittedAt:  submittedAt,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ResponsesCSV(&buf, exportForm(), submissions, model.LanguageEnglish))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Response ID", "Phone Number", "Submitted At", "Name", "Colors"}, records[0])
	assert.Equal(t, []string{"1", "0501234567", "2024-03-15T10:30:00Z", `Omar "Abu" Khalid`, "Red; Blue"}, records[1])
	assert.Equal(t, []string{"2", "0507654321", "2024-03-15T10:30:00Z", "", ""}, records[2])
}

func TestResponsesCSVQuoting(t *testing.T) {
	submissions := []model.Submission{{
		ID:          1,
		PhoneNumber: "0501234567",
		ResponseData: map[string]any{
			"name": `says "hi", twice`,
		},
		SubmittedAt: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, ResponsesCSV(&buf, exportForm(), submissions, model.LanguageEnglish))

	// embedded quotes are doubled per standard CSV quoting
	assert.Contains(t, buf.String(), `"says ""hi"", twice"`)
}

func TestResponsesCSVLocalizedHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ResponsesCSV(&buf, exportForm(), nil, model.LanguageArabic))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Arabic label where present, English fallback otherwise
	assert.Equal(t, "الاسم", records[0][3])
	assert.Equal(t, "Colors", records[0][4])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Customer_Survey_responses.csv", FileName(exportForm()))

	arabicOnly := model.Form{ID: 3, FormDefinition: model.FormDefinition{
		Title: model.BilingualText{Ar: "استبيان"},
	}}
	assert.Equal(t, "form_3_responses.csv", FileName(arabicOnly))
}
