// Package servicedef describes the parts of the service's HTTP API that the contract tests
// use: paths, form parameters, and the names of response fields that are checked.
package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	PathRoot           = "/"
	PathHRContacts     = "/hr-contacts"
	PathHiringUpdates  = "/hiring-updates"
	PathUploadResume   = "/upload-resume"
	PathGenerateEmail  = "/generate-email"
	PathStudents       = "/students"
	PathGeneratedEmail = "/emails"
)

// UploadFileField is the multipart field that carries the resume file.
const UploadFileField = "file"

// InvalidFileTypeMessage is what the service says when it rejects an upload's content type.
const InvalidFileTypeMessage = "Invalid file type"

var HRContactFields = []string{"id", "company_name", "hr_name", "hr_email", "position", "industry"}

var HiringUpdateFields = []string{"id", "company_name", "position", "industry", "requirements", "posted_date", "is_active"}

const (
	UploadFieldFilename         = "filename"
	UploadFieldOriginalFilename = "original_filename"
	UploadFieldFileSize         = "file_size"
	UploadFieldUploadSuccess    = "upload_success"
)

var UploadResultFields = []string{
	UploadFieldFilename,
	UploadFieldOriginalFilename,
	UploadFieldFileSize,
	UploadFieldUploadSuccess,
}

const (
	EmailFieldID           = "id"
	EmailFieldStudentID    = "student_id"
	EmailFieldContent      = "email_content"
	EmailFieldSubjectLines = "subject_lines"
	EmailFieldHasResume    = "has_resume"
	EmailFieldGeneratedAt  = "generated_at"
)

var GeneratedEmailFields = []string{
	EmailFieldID,
	EmailFieldStudentID,
	EmailFieldContent,
	EmailFieldSubjectLines,
	EmailFieldHasResume,
	EmailFieldGeneratedAt,
}

// StudentProfile is the form submitted to the generate-email endpoint.
type StudentProfile struct {
	Name                string `yaml:"name"`
	College             string `yaml:"college"`
	Degree              string `yaml:"degree"`
	Skills              string `yaml:"skills"`
	JobPreference       string `yaml:"jobPreference"`
	PersonalizationNote string `yaml:"personalizationNote"`

	// ResumeFilename is the storage name returned by a previous upload. It is not part of
	// the fixture file; scenarios set it from the upload artifact.
	ResumeFilename ldvalue.OptionalString `yaml:"-"`
}

// FormFields returns the profile as generate-email form fields. resume_filename is only
// included if ResumeFilename is defined.
func (p StudentProfile) FormFields() map[string]string {
	fields := map[string]string{
		"name":                 p.Name,
		"college":              p.College,
		"degree":               p.Degree,
		"skills":               p.Skills,
		"job_preference":       p.JobPreference,
		"personalization_note": p.PersonalizationNote,
	}
	if p.ResumeFilename.IsDefined() {
		fields["resume_filename"] = p.ResumeFilename.StringValue()
	}
	return fields
}
