package apitests

import (
	"github.com/jobreach/email-api-contract-tests/assertions"
	"github.com/jobreach/email-api-contract-tests/config"
	"github.com/jobreach/email-api-contract-tests/servicedef"
	"github.com/jobreach/email-api-contract-tests/transport"

	"github.com/stretchr/testify/require"
)

func (t *T) uploadFile(file config.File) *transport.Response {
	part := transport.FilePart{
		FieldName:   servicedef.UploadFileField,
		FileName:    file.Name,
		ContentType: file.ContentType,
		Content:     []byte(file.Content),
	}
	return t.Send(transport.PostMultipart(servicedef.PathUploadResume, nil, []transport.FilePart{part}, t.config.UploadTimeout))
}

// DoResumeUploadTest uploads a valid resume, whose storage name becomes the
// ArtifactResumeFilename artifact, and then checks that a file with an unsupported
// content type is rejected.
func DoResumeUploadTest(t *T) {
	resume := t.config.Fixtures.Resume
	resp := t.uploadFile(resume)
	t.Require(resp,
		assertions.StatusEquals(200),
		assertions.HasFields("", servicedef.UploadResultFields...),
	)
	t.Note("Status: %d", resp.Status)

	body := t.Decoded(resp)
	storageName := body.GetByKey(servicedef.UploadFieldFilename)
	require.True(t, storageName.IsString(), "upload response has no storage name: %s", body.JSONString())
	require.NotEmpty(t, storageName.StringValue(), "upload response has an empty storage name")
	size := body.GetByKey(servicedef.UploadFieldFileSize)
	require.True(t, size.IsInt(), "file_size should be an integer but was %s", size.JSONString())
	require.Equal(t, len(resume.Content), size.IntValue(), "file_size should match the uploaded content")
	t.Note("Upload successful: %s", body.GetByKey(servicedef.UploadFieldOriginalFilename).StringValue())
	t.Note("File size: %d bytes", size.IntValue())
	t.PutArtifact(ArtifactResumeFilename, storageName)

	invalid := t.config.Fixtures.InvalidUpload
	resp = t.uploadFile(invalid)
	t.Require(resp,
		assertions.StatusIn(400, 500),
		assertions.IsJSON(),
		assertions.BodyContains(servicedef.InvalidFileTypeMessage, false),
	)
	t.Note("Correctly rejected invalid file type (%s, status %d)", invalid.ContentType, resp.Status)
}
