package models

import "time"

// DateLayout is the calendar-date form accepted on input and used in storage.
const DateLayout = time.DateOnly

type Vaccine struct {
	Name  string
	Doses int64
}

// Appointment binds one patient, one caregiver, one date and one vaccine dose.
type Appointment struct {
	ID        int64
	Date      time.Time
	Patient   string
	Caregiver string
	Vaccine   string
}

// Schedule is what a caregiver-schedule search returns for one date.
type Schedule struct {
	Date       time.Time
	Caregivers []string
	Vaccines   []Vaccine
}
