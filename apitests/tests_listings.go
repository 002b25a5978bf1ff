package apitests

import (
	"github.com/jobreach/email-api-contract-tests/assertions"
	"github.com/jobreach/email-api-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// DoAPIRootTest checks that the service is reachable. Any 200 response is accepted,
// whatever the body.
func DoAPIRootTest(t *T) {
	resp := t.Get(servicedef.PathRoot)
	t.Require(resp, assertions.StatusEquals(200))
	t.Note("Status: %d", resp.Status)
	if v, ok := resp.Decoded(); ok {
		t.Note("Response: %s", v.JSONString())
	}
}

func DoHRContactsTest(t *T) {
	resp := t.Get(servicedef.PathHRContacts)
	t.Require(resp, assertions.StatusEquals(200))
	t.Note("Status: %d", resp.Status)

	t.Require(resp, assertions.CollectionNonEmpty(""))
	t.Note("Found %d HR contacts", t.Decoded(resp).Count())
	t.RequireEachHasFields(resp, servicedef.HRContactFields...)
}

func DoHiringUpdatesTest(t *T) {
	resp := t.Get(servicedef.PathHiringUpdates)
	t.Require(resp, assertions.StatusEquals(200))
	t.Note("Status: %d", resp.Status)

	t.Require(resp, assertions.CollectionNonEmpty(""))
	t.RequireEachHasFields(resp, servicedef.HiringUpdateFields...)

	updates := t.Decoded(resp)
	active := 0
	for i := 0; i < updates.Count(); i++ {
		flag := updates.GetByIndex(i).GetByKey("is_active")
		require.True(t, flag.IsBool(), "item %d: is_active should be a boolean but was %s", i, flag.JSONString())
		if flag.BoolValue() {
			active++
		}
	}
	t.Note("Found %d hiring updates (%d active)", updates.Count(), active)
}

// DoStudentsTest and DoGeneratedEmailsTest only check that the stored records come back as
// an array; the array may be empty on a fresh deployment.
func DoStudentsTest(t *T) {
	resp := t.Get(servicedef.PathStudents)
	t.Require(resp, assertions.StatusEquals(200), assertions.IsArray(""))
	t.Note("Status: %d", resp.Status)
	t.Note("Found %d students in database", t.Decoded(resp).Count())
}

func DoGeneratedEmailsTest(t *T) {
	resp := t.Get(servicedef.PathGeneratedEmail)
	t.Require(resp, assertions.StatusEquals(200), assertions.IsArray(""))
	t.Note("Status: %d", resp.Status)
	t.Note("Found %d generated emails in database", t.Decoded(resp).Count())
}
