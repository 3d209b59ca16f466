package models

import (
	"time"
)

type CourseStatus string

const (
	CourseStatusActive    CourseStatus = "active"
	CourseStatusUpcoming  CourseStatus = "upcoming"
	CourseStatusCompleted CourseStatus = "completed"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

// Course mirrors an LMS course section as of the last sync.
type Course struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	Name          string       `json:"name" gorm:"not null"`
	Code          string       `json:"code" gorm:"index"`
	Product       Product      `json:"product" gorm:"index"`
	Instructor    string       `json:"instructor"`
	Department    string       `json:"department"`
	Term          string       `json:"term"`
	EnrolledCount int          `json:"enrolled_count"`
	Capacity      int          `json:"capacity"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       time.Time    `json:"end_date"`
	Status        CourseStatus `json:"status"`
	LastSynced    *time.Time   `json:"last_synced,omitempty"`
}

// StudentEnrollment is one student's membership in a course. Course fields
// are denormalized for display, same as the report artifact snapshots.
type StudentEnrollment struct {
	ID             string           `json:"id" gorm:"primaryKey"`
	StudentID      string           `json:"student_id" gorm:"index"`
	StudentName    string           `json:"student_name"`
	StudentEmail   string           `json:"student_email"`
	CourseID       string           `json:"course_id" gorm:"not null;index"`
	CourseName     string           `json:"course_name"`
	CourseCode     string           `json:"course_code"`
	Product        Product          `json:"product"`
	EnrollmentDate time.Time        `json:"enrollment_date"`
	Status         EnrollmentStatus `json:"status"`
	Grade          string           `json:"grade,omitempty"`
	Progress       int              `json:"progress,omitempty"`
	LastActivity   *time.Time       `json:"last_activity,omitempty"`
}

type SyncType string

const (
	SyncTypeAuto   SyncType = "auto"
	SyncTypeManual SyncType = "manual"
)

type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusFailed  SyncStatus = "failed"
)

// SyncRecord is one entry in the LMS sync history.
type SyncRecord struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	Timestamp         time.Time  `json:"timestamp" gorm:"index"`
	Type              SyncType   `json:"type"`
	Status            SyncStatus `json:"status"`
	CoursesUpdated    int        `json:"courses_updated"`
	StudentsProcessed int        `json:"students_processed"`
	NewEnrollments    int        `json:"new_enrollments"`
	DroppedStudents   int        `json:"dropped_students"`
	Duration          string     `json:"duration,omitempty"`
	ErrorMessage      string     `json:"error_message,omitempty"`
}

// EnrollmentStats is the aggregate view for the enrollment dashboard.
type EnrollmentStats struct {
	TotalStudents   int `json:"total_students"`
	TotalCapacity   int `json:"total_capacity"`
	ActiveCourses   int `json:"active_courses"`
	UtilizationRate int `json:"utilization_rate"`
}
