package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// HealthRecord is a single health measurement set as returned by the backend.
// Optional measurements are nil when the backend sends null or omits them.
type HealthRecord struct {
	ID                     int64    `json:"id"`
	RecordDate             string   `json:"record_date"`
	RecordType             string   `json:"record_type,omitempty"`
	Weight                 *float64 `json:"weight"`
	Height                 *float64 `json:"height"`
	BMI                    *float64 `json:"bmi"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic"`
	HeartRate              *int     `json:"heart_rate"`
	BloodSugar             *float64 `json:"blood_sugar"`
	SleepHours             *float64 `json:"sleep_hours"`
	Steps                  *int     `json:"steps"`
	Notes                  string   `json:"notes,omitempty"`
}

// RecordInput is the body of a create or update request. Unset fields are
// omitted so the backend keeps its defaults.
type RecordInput struct {
	RecordDate             string   `json:"record_date"`
	Weight                 *float64 `json:"weight,omitempty"`
	Height                 *float64 `json:"height,omitempty"`
	BMI                    *float64 `json:"bmi,omitempty"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	HeartRate              *int     `json:"heart_rate,omitempty"`
	BloodSugar             *float64 `json:"blood_sugar,omitempty"`
	SleepHours             *float64 `json:"sleep_hours,omitempty"`
	Steps                  *int     `json:"steps,omitempty"`
	Notes                  string   `json:"notes,omitempty"`
}

// Validate checks the input before it is sent and fills in the derived BMI.
func (in *RecordInput) Validate() error {
	in.RecordDate = strings.TrimSpace(in.RecordDate)
	if in.RecordDate == "" {
		return fmt.Errorf("%w: record date is required", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", in.RecordDate); err != nil {
		return fmt.Errorf("%w: record date must be YYYY-MM-DD", ErrValidation)
	}
	floats := []struct {
		name string
		v    *float64
	}{
		{"weight", in.Weight}, {"height", in.Height}, {"blood sugar", in.BloodSugar}, {"sleep hours", in.SleepHours},
	}
	for _, f := range floats {
		if f.v == nil {
			continue
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			return fmt.Errorf("%w: %s must be a number", ErrValidation, f.name)
		}
		if *f.v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, f.name)
		}
	}
	ints := []struct {
		name string
		v    *int
	}{
		{"systolic pressure", in.BloodPressureSystolic}, {"diastolic pressure", in.BloodPressureDiastolic},
		{"heart rate", in.HeartRate}, {"steps", in.Steps},
	}
	for _, f := range ints {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, f.name)
		}
	}
	in.BMI = nil
	if in.Weight != nil && in.Height != nil {
		if bmi, ok := ComputeBMI(*in.Weight, *in.Height); ok {
			in.BMI = &bmi
		}
	}
	return nil
}

// ComputeBMI returns weight / (height in meters)^2 rounded to one decimal.
// heightCm is in centimeters. ok is false unless both values are positive.
func ComputeBMI(weightKg, heightCm float64) (bmi float64, ok bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10, true
}

// BMIStatus classifies a BMI value for display.
func BMIStatus(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 24:
		return "Normal"
	case bmi < 28:
		return "Overweight"
	default:
		return "Obese"
	}
}

// BloodPressureStatus classifies a systolic/diastolic reading for display.
func BloodPressureStatus(sys, dia int) string {
	switch {
	case sys < 120 && dia < 80:
		return "Normal"
	case sys >= 120 && sys <= 129 && dia < 80:
		return "Elevated"
	case (sys >= 130 && sys <= 139) || (dia >= 80 && dia <= 89):
		return "Stage 1 hypertension"
	case sys >= 140 || dia >= 90:
		return "Stage 2 hypertension"
	}
	return ""
}

// HeartRateStatus classifies a resting heart rate for display.
func HeartRateStatus(bpm int) string {
	switch {
	case bpm < 60:
		return "Low"
	case bpm <= 100:
		return "Normal"
	default:
		return "High"
	}
}

// WeightTrend describes the change between the latest and the previous weight.
// records must be newest first.
func WeightTrend(records []HealthRecord) string {
	if len(records) == 0 || records[0].Weight == nil {
		return ""
	}
	if len(records) == 1 {
		return "First record"
	}
	prev := records[1].Weight
	if prev == nil {
		return "No history"
	}
	diff := *records[0].Weight - *prev
	switch {
	case diff > 0:
		return fmt.Sprintf("Up %.1f kg", diff)
	case diff < 0:
		return fmt.Sprintf("Down %.1f kg", -diff)
	default:
		return "Unchanged"
	}
}

// HealthAPI is the port for the backend's health record endpoints.
type HealthAPI interface {
	ListRecords(ctx context.Context) ([]HealthRecord, error)
	GetRecord(ctx context.Context, id int64) (*HealthRecord, error)
	CreateRecord(ctx context.Context, in RecordInput) error
	UpdateRecord(ctx context.Context, id int64, in RecordInput) error
	DeleteRecord(ctx context.Context, id int64) error
}
