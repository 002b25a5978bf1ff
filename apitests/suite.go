package apitests

import (
	"context"

	"github.com/jobreach/email-api-contract-tests/config"
	"github.com/jobreach/email-api-contract-tests/framework"
	"github.com/jobreach/email-api-contract-tests/transport"
)

const (
	ScenarioAPIRoot               = "API Root Endpoint"
	ScenarioHRContacts            = "HR Contacts Endpoint"
	ScenarioHiringUpdates         = "Hiring Updates Endpoint"
	ScenarioStudents              = "Students Endpoint"
	ScenarioGeneratedEmails       = "Generated Emails Endpoint"
	ScenarioResumeUpload          = "Resume Upload Endpoint"
	ScenarioEmailGeneration       = "Email Generation with FormData"
	ScenarioEmailGenerationResume = "Email Generation with Resume"
	ArtifactResumeFilename        = "resume-filename"
)

// AllScenarios returns the fixed scenario list in the order it must run. The API root
// check is critical, since nothing else is meaningful if the service is unreachable.
func AllScenarios(client *transport.Client, cfg config.Config) []framework.Scenario {
	scenario := func(name string, action func(*T)) framework.Scenario {
		return framework.Scenario{
			Name: name,
			Run: func(c *framework.Context) {
				action(&T{context: c, client: client, config: cfg})
			},
		}
	}

	root := scenario(ScenarioAPIRoot, DoAPIRootTest)
	root.Critical = true

	withResume := scenario(ScenarioEmailGenerationResume, DoEmailGenerationWithResumeTest)
	withResume.Requires = []string{ScenarioResumeUpload}

	attempts := cfg.GenerationRetries + 1
	return []framework.Scenario{
		root,
		scenario(ScenarioHRContacts, DoHRContactsTest),
		scenario(ScenarioHiringUpdates, DoHiringUpdatesTest),
		scenario(ScenarioStudents, DoStudentsTest),
		scenario(ScenarioGeneratedEmails, DoGeneratedEmailsTest),
		scenario(ScenarioResumeUpload, DoResumeUploadTest),
		scenario(ScenarioEmailGeneration, DoEmailGenerationTest).WithRetries(attempts, cfg.RetryDelay),
		withResume.WithRetries(attempts, cfg.RetryDelay),
	}
}

// RunTestSuite runs every scenario against the service that client points to.
func RunTestSuite(
	ctx context.Context,
	client *transport.Client,
	cfg config.Config,
	runConfig framework.OrchestratorConfig,
) (framework.RunSummary, error) {
	o, err := framework.NewOrchestrator(AllScenarios(client, cfg), runConfig)
	if err != nil {
		return framework.RunSummary{}, err
	}
	return o.Run(ctx)
}
