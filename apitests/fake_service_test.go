package apitests

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// fakeService is an in-process stand-in for the cold email generator API. By default it
// honors the whole contract; its fields let tests break one behavior at a time.
type fakeService struct {
	rootHandler         http.Handler
	hrContactsHandler   http.Handler
	hiringHandler       http.Handler
	misreportFileSize   bool
	acceptAnyUploadType bool
	failUploads         bool
	ignoreResume        bool
	omitResumeMention   bool
	listingDelay        time.Duration

	storedFiles      map[string]bool
	generateRequests []map[string]string
	lock             sync.Mutex
}

func newFakeService() *fakeService {
	return &fakeService{storedFiles: make(map[string]bool)}
}

func (f *fakeService) handler() http.Handler {
	contact := ldvalue.ObjectBuild().
		Set("id", ldvalue.String("c1")).
		Set("company_name", ldvalue.String("Acme")).
		Set("hr_name", ldvalue.String("Jo Park")).
		Set("hr_email", ldvalue.String("jo@acme.example")).
		Set("position", ldvalue.String("Engineer")).
		Set("industry", ldvalue.String("Software")).
		Build()
	update := ldvalue.ObjectBuild().
		Set("id", ldvalue.String("h1")).
		Set("company_name", ldvalue.String("Acme")).
		Set("position", ldvalue.String("Engineer")).
		Set("industry", ldvalue.String("Software")).
		Set("requirements", ldvalue.String("Go")).
		Set("posted_date", ldvalue.String("2026-10-01")).
		Set("is_active", ldvalue.Bool(true)).
		Build()

	hrContacts := f.hrContactsHandler
	if hrContacts == nil {
		hrContacts = httphelpers.HandlerWithJSONResponse(ldvalue.ArrayOf(contact), nil)
	}
	hiring := f.hiringHandler
	if hiring == nil {
		hiring = httphelpers.HandlerWithJSONResponse(ldvalue.ArrayOf(update), nil)
	}
	root := f.rootHandler
	if root == nil {
		root = httphelpers.HandlerWithJSONResponse(ldvalue.ObjectBuild().Set("message", ldvalue.String("Cold Email Generator API")).Build(), nil)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/" {
			w.WriteHeader(404)
			return
		}
		root.ServeHTTP(w, r)
	}))
	mux.Handle("/api/hr-contacts", f.delayed(hrContacts))
	mux.Handle("/api/hiring-updates", f.delayed(hiring))
	mux.Handle("/api/students", f.delayed(httphelpers.HandlerWithJSONResponse(ldvalue.ArrayOf(), nil)))
	mux.Handle("/api/emails", f.delayed(httphelpers.HandlerWithJSONResponse(ldvalue.ArrayOf(), nil)))
	mux.HandleFunc("/api/upload-resume", f.serveUpload)
	mux.HandleFunc("/api/generate-email", f.serveGenerateEmail)
	return mux
}

func (f *fakeService) delayed(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.listingDelay > 0 {
			select {
			case <-time.After(f.listingDelay):
			case <-r.Context().Done():
				return
			}
		}
		h.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v ldvalue.Value) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(v.JSONString()))
}

func errorBody(message string) ldvalue.Value {
	return ldvalue.ObjectBuild().Set("detail", ldvalue.String(message)).Build()
}

func (f *fakeService) serveUpload(w http.ResponseWriter, r *http.Request) {
	if f.failUploads {
		writeJSON(w, 500, errorBody("storage unavailable"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, 422, errorBody("file part is required"))
		return
	}
	data, _ := ioutil.ReadAll(file)
	contentType := header.Header.Get("Content-Type")
	if contentType != "application/pdf" && !f.acceptAnyUploadType {
		writeJSON(w, 400, errorBody("Invalid file type. Only PDF, DOC, and DOCX files are allowed."))
		return
	}

	size := len(data)
	if f.misreportFileSize {
		size++
	}

	f.lock.Lock()
	storageName := fmt.Sprintf("stored-%d-%s", len(f.storedFiles)+1, header.Filename)
	f.storedFiles[storageName] = true
	f.lock.Unlock()

	writeJSON(w, 200, ldvalue.ObjectBuild().
		Set("filename", ldvalue.String(storageName)).
		Set("original_filename", ldvalue.String(header.Filename)).
		Set("file_size", ldvalue.Int(size)).
		Set("upload_success", ldvalue.Bool(true)).
		Build())
}

func (f *fakeService) serveGenerateEmail(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, 400, errorBody("bad form"))
		return
	}
	fields := make(map[string]string)
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}
	f.lock.Lock()
	f.generateRequests = append(f.generateRequests, fields)
	hasResume := f.storedFiles[fields["resume_filename"]] && !f.ignoreResume
	mentionResume := hasResume && !f.omitResumeMention
	f.lock.Unlock()

	content := fmt.Sprintf("Dear Hiring Manager,\n\nMy name is %s and I studied %s at %s. "+
		"I am very interested in a %s role.", fields["name"], fields["degree"], fields["college"], fields["job_preference"])
	if mentionResume {
		content += " I have attached my resume for your review."
	}
	writeJSON(w, 200, ldvalue.ObjectBuild().
		Set("id", ldvalue.String("e1")).
		Set("student_id", ldvalue.String("s1")).
		Set("email_content", ldvalue.String(content)).
		Set("subject_lines", ldvalue.ArrayOf(
			ldvalue.String("Aspiring "+fields["job_preference"]),
			ldvalue.String("Application from "+fields["name"]),
			ldvalue.String("Interested in joining your team"),
		)).
		Set("has_resume", ldvalue.Bool(hasResume)).
		Set("generated_at", ldvalue.String("2026-10-17T12:00:00Z")).
		Build())
}

func (f *fakeService) generateRequestsWithResume() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	n := 0
	for _, req := range f.generateRequests {
		if strings.TrimSpace(req["resume_filename"]) != "" {
			n++
		}
	}
	return n
}
