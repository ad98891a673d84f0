package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"healthweb/internal/domain"
)

// MaxTableRows is the number of records shown in the dashboard table.
const MaxTableRows = 10

// RecordRow is one line of the records table. Missing values are "-".
type RecordRow struct {
	ID            int64
	Date          string
	Weight        string
	BMI           string
	BloodPressure string
	HeartRate     string
	BloodSugar    string
	SleepHours    string
	Steps         string
}

// RecordRows builds the table from newest-first records.
func RecordRows(recs []domain.HealthRecord) []RecordRow {
	if len(recs) > MaxTableRows {
		recs = recs[:MaxTableRows]
	}
	rows := make([]RecordRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, RecordRow{
			ID:            r.ID,
			Date:          Date(r.RecordDate),
			Weight:        num(r.Weight),
			BMI:           num1(recordBMI(r)),
			BloodPressure: bloodPressure(r),
			HeartRate:     integer(r.HeartRate),
			BloodSugar:    num(r.BloodSugar),
			SleepHours:    num(r.SleepHours),
			Steps:         integer(r.Steps),
		})
	}
	return rows
}

func bloodPressure(r domain.HealthRecord) string {
	if r.BloodPressureSystolic == nil {
		return missing
	}
	return integer(r.BloodPressureSystolic) + "/" + integer(r.BloodPressureDiastolic)
}

func recordBMI(r domain.HealthRecord) *float64 {
	if r.BMI != nil {
		return r.BMI
	}
	if r.Weight != nil && r.Height != nil {
		if bmi, ok := domain.ComputeBMI(*r.Weight, *r.Height); ok {
			return &bmi
		}
	}
	return nil
}

// ChartData feeds the weight and blood pressure charts. Series share the
// label index; nil entries encode as null.
type ChartData struct {
	Labels    []string   `json:"labels"`
	Weight    []*float64 `json:"weight"`
	Systolic  []*int     `json:"systolic"`
	Diastolic []*int     `json:"diastolic"`
}

// BuildCharts turns newest-first records into chronological series.
func BuildCharts(recs []domain.HealthRecord) ChartData {
	c := ChartData{
		Labels:    make([]string, 0, len(recs)),
		Weight:    make([]*float64, 0, len(recs)),
		Systolic:  make([]*int, 0, len(recs)),
		Diastolic: make([]*int, 0, len(recs)),
	}
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		c.Labels = append(c.Labels, Date(r.RecordDate))
		c.Weight = append(c.Weight, r.Weight)
		c.Systolic = append(c.Systolic, r.BloodPressureSystolic)
		c.Diastolic = append(c.Diastolic, r.BloodPressureDiastolic)
	}
	return c
}

// JSON returns the chart data for a script data island.
func (c ChartData) JSON() template.JS {
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}

// SummaryCard is one tile above the dashboard charts.
type SummaryCard struct {
	Title  string
	Value  string
	Status string
}

// Summary describes the latest record.
func Summary(recs []domain.HealthRecord) []SummaryCard {
	cards := []SummaryCard{
		{Title: "BMI", Value: missing, Status: "No data"},
		{Title: "Weight", Value: missing, Status: "No data"},
		{Title: "Blood pressure", Value: missing, Status: "No data"},
		{Title: "Heart rate", Value: missing, Status: "No data"},
	}
	if len(recs) == 0 {
		return cards
	}
	latest := recs[0]
	if bmi := recordBMI(latest); bmi != nil {
		cards[0].Value = num1(bmi)
		cards[0].Status = domain.BMIStatus(*bmi)
	}
	if latest.Weight != nil {
		cards[1].Value = num(latest.Weight) + " kg"
		cards[1].Status = domain.WeightTrend(recs)
	}
	if latest.BloodPressureSystolic != nil && latest.BloodPressureDiastolic != nil {
		cards[2].Value = bloodPressure(latest) + " mmHg"
		cards[2].Status = domain.BloodPressureStatus(*latest.BloodPressureSystolic, *latest.BloodPressureDiastolic)
	}
	if latest.HeartRate != nil {
		cards[3].Value = integer(latest.HeartRate) + " bpm"
		cards[3].Status = domain.HeartRateStatus(*latest.HeartRate)
	}
	return cards
}

// RecordForm holds the raw values of the record form.
type RecordForm struct {
	ID         int64
	RecordDate string
	Weight     string
	Height     string
	Systolic   string
	Diastolic  string
	HeartRate  string
	BloodSugar string
	SleepHours string
	Steps      string
	Notes      string
}

// Action is the URL the form posts to.
func (f RecordForm) Action() string {
	if f.ID == 0 {
		return "/dashboard/records"
	}
	return fmt.Sprintf("/dashboard/records/%d", f.ID)
}

// NewRecordForm returns an empty form dated today.
func NewRecordForm(now time.Time) RecordForm {
	return RecordForm{RecordDate: now.Format("2006-01-02")}
}

// FormFromRecord prefills the form for editing r.
func FormFromRecord(r *domain.HealthRecord) RecordForm {
	blank := func(s string) string {
		if s == missing {
			return ""
		}
		return s
	}
	return RecordForm{
		ID:         r.ID,
		RecordDate: blank(Date(r.RecordDate)),
		Weight:     blank(num(r.Weight)),
		Height:     blank(num(r.Height)),
		Systolic:   blank(integer(r.BloodPressureSystolic)),
		Diastolic:  blank(integer(r.BloodPressureDiastolic)),
		HeartRate:  blank(integer(r.HeartRate)),
		BloodSugar: blank(num(r.BloodSugar)),
		SleepHours: blank(num(r.SleepHours)),
		Steps:      blank(integer(r.Steps)),
		Notes:      r.Notes,
	}
}
