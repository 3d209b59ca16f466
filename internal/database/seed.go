package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/veenapanicker/nexus/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := date(year, month, day)
	return &t
}

var allFormats = []models.ReportFormat{models.FormatCSV, models.FormatXLSX, models.FormatBoth}

// SeedCatalog loads the fixed report catalog. Runs on every startup; the
// catalog is reference data and is never mutated afterwards.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Report{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count reports: %w", err)
	}
	if count > 0 {
		return nil
	}

	reports := []models.Report{
		{ID: "connect-enrollment", Name: "Course Enrollment Summary", Description: "Overview of student enrollments across all Connect courses, including enrollment trends and course capacity utilization.", Product: models.ProductConnect, Category: "Enrollment", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 20)},
		{ID: "connect-performance", Name: "Student Performance Report", Description: "Detailed analysis of student performance metrics including assignment scores, completion rates, and grade distributions.", Product: models.ProductConnect, Category: "Performance", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 19)},
		{ID: "connect-active-users", Name: "Active Users Report", Description: "Daily and weekly active user counts with engagement metrics and session duration analysis.", Product: models.ProductConnect, Category: "Usage", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 25)},
		{ID: "connect-assignment", Name: "Assignment Statistics", Description: "Comprehensive assignment data including submission rates, average scores, and time-to-complete metrics.", Product: models.ProductConnect, Category: "Performance", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 22)},
		{ID: "connect-faculty", Name: "Faculty Activity Report", Description: "Faculty engagement metrics including course creation, grading activity, and student interaction frequency.", Product: models.ProductConnect, Category: "Usage", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 18)},
		{ID: "aleks-learning-path", Name: "Learning Path Progress", Description: "Student progress through ALEKS learning paths with topic mastery and time-on-task metrics.", Product: models.ProductALEKS, Category: "Performance", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 18)},
		{ID: "aleks-mastery", Name: "Topic Mastery Report", Description: "Detailed breakdown of student mastery levels across all ALEKS topics and skill areas.", Product: models.ProductALEKS, Category: "Performance", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 21)},
		{ID: "aleks-time", Name: "Time on Task Analysis", Description: "Analysis of student time spent in ALEKS including productive learning time and session patterns.", Product: models.ProductALEKS, Category: "Usage", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 17)},
		{ID: "aleks-placement", Name: "Placement Assessment Results", Description: "Summary of placement assessment scores and recommended course placements.", Product: models.ProductALEKS, Category: "Assessment", AvailableFormats: allFormats},
		{ID: "simnet-skills", Name: "Skills Assessment Summary", Description: "Overview of student performance on SIMnet skills assessments across Microsoft Office applications.", Product: models.ProductSIMnet, Category: "Assessment", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 23)},
		{ID: "simnet-certification", Name: "Certification Readiness", Description: "Student readiness metrics for Microsoft Office Specialist certification exams.", Product: models.ProductSIMnet, Category: "Assessment", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 15)},
		{ID: "simnet-project", Name: "Project Completion Report", Description: "Detailed project completion data with skill-by-skill breakdown and common error analysis.", Product: models.ProductSIMnet, Category: "Performance", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 20)},
		{ID: "sharpen-engagement", Name: "Student Engagement Metrics", Description: "Sharpen platform engagement including video views, practice problem attempts, and study session data.", Product: models.ProductSharpen, Category: "Usage", AvailableFormats: allFormats, LastGenerated: datePtr(2026, time.January, 24)},
		{ID: "sharpen-outcomes", Name: "Learning Outcomes Report", Description: "Analysis of learning outcomes and skill improvement metrics from Sharpen activities.", Product: models.ProductSharpen, Category: "Performance", AvailableFormats: allFormats},
	}

	if err := db.Create(&reports).Error; err != nil {
		return fmt.Errorf("failed to seed report catalog: %w", err)
	}
	return nil
}

// SeedDemo loads representative licenses, courses, enrollments, admins and
// sync history so a fresh instance has something to show. Skipped when any
// demo data is already present.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	admins := []models.AdminUser{
		{
			ID: "user-1", Name: "Sarah Chen", Email: "schen@stateuniversity.edu",
			Role: models.RoleInstitutionalAdmin, Institution: "State University",
			Permissions:   models.DefaultPermissions(models.RoleInstitutionalAdmin),
			ProductAccess: fullProductAccess(),
			Status:        models.AdminStatusActive, AddedDate: date(2025, time.August, 12), AddedBy: "system",
		},
		{
			ID: "user-2", Name: "Marcus Webb", Email: "mwebb@stateuniversity.edu",
			Role: models.RoleBillingAdmin, Institution: "State University",
			Permissions:   models.DefaultPermissions(models.RoleBillingAdmin),
			ProductAccess: fullProductAccess(),
			Status:        models.AdminStatusActive, AddedDate: date(2025, time.September, 3), AddedBy: "Sarah Chen",
		},
	}
	if err := db.Create(&admins).Error; err != nil {
		return fmt.Errorf("failed to seed admins: %w", err)
	}

	licenses := []models.License{
		{ID: "lic-1", Product: models.ProductConnect, TotalSeats: 500, UsedSeats: 423, AvailableSeats: 77, ExpirationDate: date(2026, time.August, 15), Status: models.LicenseStatusActive, CostPerSeat: 89, RenewalDate: datePtr(2026, time.July, 1)},
		{ID: "lic-2", Product: models.ProductALEKS, TotalSeats: 300, UsedSeats: 287, AvailableSeats: 13, ExpirationDate: date(2026, time.May, 31), Status: models.LicenseStatusActive, CostPerSeat: 75, RenewalDate: datePtr(2026, time.April, 15)},
		{ID: "lic-3", Product: models.ProductSIMnet, TotalSeats: 150, UsedSeats: 142, AvailableSeats: 8, ExpirationDate: date(2026, time.February, 28), Status: models.LicenseStatusExpiringSoon, CostPerSeat: 65, RenewalDate: datePtr(2026, time.February, 1)},
		{ID: "lic-4", Product: models.ProductSharpen, TotalSeats: 200, UsedSeats: 156, AvailableSeats: 44, ExpirationDate: date(2026, time.December, 31), Status: models.LicenseStatusActive, CostPerSeat: 45},
	}
	if err := db.Create(&licenses).Error; err != nil {
		return fmt.Errorf("failed to seed licenses: %w", err)
	}

	courses := []models.Course{
		{ID: "course-1", Name: "Introduction to Economics", Code: "ECON 101", Product: models.ProductConnect, Instructor: "Dr. Amanda Foster", Department: "Economics", Term: "Spring 2026", EnrolledCount: 145, Capacity: 150, StartDate: date(2026, time.January, 13), EndDate: date(2026, time.May, 10), Status: models.CourseStatusActive},
		{ID: "course-2", Name: "Cell Biology", Code: "BIO 201", Product: models.ProductConnect, Instructor: "Dr. Robert Chang", Department: "Biology", Term: "Spring 2026", EnrolledCount: 98, Capacity: 100, StartDate: date(2026, time.January, 13), EndDate: date(2026, time.May, 10), Status: models.CourseStatusActive},
		{ID: "course-3", Name: "Calculus I", Code: "MATH 150", Product: models.ProductALEKS, Instructor: "Dr. Lisa Wang", Department: "Mathematics", Term: "Spring 2026", EnrolledCount: 180, Capacity: 200, StartDate: date(2026, time.January, 13), EndDate: date(2026, time.May, 10), Status: models.CourseStatusActive},
		{ID: "course-4", Name: "Computer Applications", Code: "CIS 110", Product: models.ProductSIMnet, Instructor: "Prof. Mark Davis", Department: "Computer Science", Term: "Spring 2026", EnrolledCount: 72, Capacity: 80, StartDate: date(2026, time.January, 13), EndDate: date(2026, time.May, 10), Status: models.CourseStatusActive},
		{ID: "course-5", Name: "Introduction to Psychology", Code: "PSY 101", Product: models.ProductSharpen, Instructor: "Dr. Sarah Miller", Department: "Psychology", Term: "Spring 2026", EnrolledCount: 156, Capacity: 175, StartDate: date(2026, time.January, 13), EndDate: date(2026, time.May, 10), Status: models.CourseStatusActive},
	}
	if err := db.Create(&courses).Error; err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	enrollments := []models.StudentEnrollment{
		{ID: "enr-1", StudentID: "STU-10234", StudentName: "Emily Johnson", StudentEmail: "ejohnson@stateuniversity.edu", CourseID: "course-1", CourseName: "Introduction to Economics", CourseCode: "ECON 101", Product: models.ProductConnect, EnrollmentDate: date(2026, time.January, 10), Status: models.EnrollmentStatusActive, Grade: "A-", Progress: 78, LastActivity: datePtr(2026, time.January, 25)},
		{ID: "enr-2", StudentID: "STU-10235", StudentName: "Michael Chen", StudentEmail: "mchen@stateuniversity.edu", CourseID: "course-2", CourseName: "Cell Biology", CourseCode: "BIO 201", Product: models.ProductConnect, EnrollmentDate: date(2026, time.January, 8), Status: models.EnrollmentStatusActive, Grade: "B+", Progress: 82, LastActivity: datePtr(2026, time.January, 26)},
		{ID: "enr-3", StudentID: "STU-10236", StudentName: "Sofia Rodriguez", StudentEmail: "srodriguez@stateuniversity.edu", CourseID: "course-3", CourseName: "Calculus I", CourseCode: "MATH 150", Product: models.ProductALEKS, EnrollmentDate: date(2026, time.January, 5), Status: models.EnrollmentStatusActive, Progress: 65, LastActivity: datePtr(2026, time.January, 24)},
		{ID: "enr-4", StudentID: "STU-10237", StudentName: "James Williams", StudentEmail: "jwilliams@stateuniversity.edu", CourseID: "course-4", CourseName: "Computer Applications", CourseCode: "CIS 110", Product: models.ProductSIMnet, EnrollmentDate: date(2025, time.September, 1), Status: models.EnrollmentStatusActive, Grade: "A", Progress: 91, LastActivity: datePtr(2026, time.January, 20)},
		{ID: "enr-5", StudentID: "STU-10238", StudentName: "Aisha Patel", StudentEmail: "apatel@stateuniversity.edu", CourseID: "course-1", CourseName: "Introduction to Economics", CourseCode: "ECON 101", Product: models.ProductConnect, EnrollmentDate: date(2026, time.January, 12), Status: models.EnrollmentStatusActive, Grade: "B", Progress: 70, LastActivity: datePtr(2026, time.January, 25)},
	}
	if err := db.Create(&enrollments).Error; err != nil {
		return fmt.Errorf("failed to seed enrollments: %w", err)
	}

	seats := []models.StudentLicense{
		{ID: "sl-1", LicenseID: "lic-1", StudentID: "STU-10234", StudentName: "Emily Johnson", StudentEmail: "ejohnson@stateuniversity.edu", Product: models.ProductConnect, AssignedDate: date(2026, time.January, 10), ExpirationDate: date(2026, time.August, 15), Status: models.LicenseStatusActive, LastAccess: datePtr(2026, time.January, 25), CourseName: "ECON 101"},
		{ID: "sl-2", LicenseID: "lic-2", StudentID: "STU-10236", StudentName: "Sofia Rodriguez", StudentEmail: "srodriguez@stateuniversity.edu", Product: models.ProductALEKS, AssignedDate: date(2026, time.January, 5), ExpirationDate: date(2026, time.May, 31), Status: models.LicenseStatusActive, LastAccess: datePtr(2026, time.January, 24), CourseName: "MATH 150"},
		{ID: "sl-3", LicenseID: "lic-3", StudentID: "STU-10237", StudentName: "James Williams", StudentEmail: "jwilliams@stateuniversity.edu", Product: models.ProductSIMnet, AssignedDate: date(2025, time.September, 1), ExpirationDate: date(2026, time.February, 28), Status: models.LicenseStatusExpiringSoon, LastAccess: datePtr(2026, time.January, 20), CourseName: "CIS 110"},
	}
	if err := db.Create(&seats).Error; err != nil {
		return fmt.Errorf("failed to seed student licenses: %w", err)
	}

	history := []models.SyncRecord{
		{ID: "sync-1", Timestamp: date(2026, time.January, 26).Add(12*time.Hour + 45*time.Minute), Type: models.SyncTypeManual, Status: models.SyncStatusSuccess, CoursesUpdated: 34, StudentsProcessed: 1247, NewEnrollments: 12, DroppedStudents: 3, Duration: "2m18s"},
		{ID: "sync-2", Timestamp: date(2026, time.January, 26).Add(10*time.Hour + 45*time.Minute), Type: models.SyncTypeAuto, Status: models.SyncStatusSuccess, CoursesUpdated: 34, StudentsProcessed: 1235, NewEnrollments: 5, DroppedStudents: 1, Duration: "2m5s"},
		{ID: "sync-3", Timestamp: date(2026, time.January, 23).Add(10*time.Hour + 45*time.Minute), Type: models.SyncTypeAuto, Status: models.SyncStatusPartial, CoursesUpdated: 28, StudentsProcessed: 1210, Duration: "3m45s", ErrorMessage: "LMS request timed out; retried manually"},
	}
	if err := db.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to seed sync history: %w", err)
	}

	return nil
}

func fullProductAccess() models.ProductAccess {
	all := []models.Product{models.ProductConnect, models.ProductALEKS, models.ProductSIMnet, models.ProductSharpen}
	return models.ProductAccess{Reports: all, Licenses: all, Enrollment: all}
}
