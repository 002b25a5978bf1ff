package apitests

import (
	"github.com/jobreach/email-api-contract-tests/assertions"
	"github.com/jobreach/email-api-contract-tests/servicedef"
	"github.com/jobreach/email-api-contract-tests/transport"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/require"
)

const (
	minSubjectLines   = 3
	minContentLength  = 50
	subjectPreviewLen = 50
)

func (t *T) generateEmail(profile servicedef.StudentProfile) *transport.Response {
	t.Debug("Generating email for %s, this may take a while", profile.Name)
	resp := t.Send(transport.PostForm(servicedef.PathGenerateEmail, profile.FormFields(), t.config.LongTimeout))
	t.Require(resp,
		assertions.StatusEquals(200),
		assertions.HasFields("", servicedef.GeneratedEmailFields...),
	)
	t.Note("Status: %d", resp.Status)
	return resp
}

// DoEmailGenerationTest generates an email without a resume. The checks on the content
// itself are heuristic, since the text comes from a generator.
func DoEmailGenerationTest(t *T) {
	profile := t.config.Fixtures.Student
	resp := t.generateEmail(profile)
	t.Note("Email generated successfully")

	t.Require(resp, assertions.CollectionMinLength(servicedef.EmailFieldSubjectLines, minSubjectLines))
	body := t.Decoded(resp)
	subjects := body.GetByKey(servicedef.EmailFieldSubjectLines)
	for i := 0; i < subjects.Count(); i++ {
		s := subjects.GetByIndex(i)
		require.True(t, s.IsString(), "subject line %d should be a string but was %s", i, s.JSONString())
		require.NotEmpty(t, s.StringValue(), "subject line %d is empty", i)
	}
	t.Note("Generated %d subject lines", subjects.Count())
	t.Note("First subject: '%s...'", preview(subjects.GetByIndex(0).StringValue(), subjectPreviewLen))

	t.Require(resp, assertions.FieldEquals(servicedef.EmailFieldHasResume, ldvalue.Bool(false)))
	t.Note("Has resume: false")

	t.Require(resp,
		assertions.StringMinLength(servicedef.EmailFieldContent, minContentLength),
		assertions.ContainsSubstring(servicedef.EmailFieldContent, profile.Name, false),
	)
	t.Note("Content length: %d chars", len([]rune(body.GetByKey(servicedef.EmailFieldContent).StringValue())))
}

// DoEmailGenerationWithResumeTest generates an email referring to the resume uploaded by
// the resume upload scenario.
func DoEmailGenerationWithResumeTest(t *T) {
	filename := t.RequireArtifact(ArtifactResumeFilename, ScenarioResumeUpload)

	profile := t.config.Fixtures.StudentWithResume
	profile.ResumeFilename = ldvalue.NewOptionalString(filename.StringValue())
	resp := t.generateEmail(profile)

	t.Require(resp, assertions.FieldEquals(servicedef.EmailFieldHasResume, ldvalue.Bool(true)))
	t.Note("Resume attachment correctly detected")

	t.Require(resp, assertions.ContainsAnySubstring(servicedef.EmailFieldContent, []string{"resume", "attached"}, true))
	t.Note("Resume mentioned in email content")
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
