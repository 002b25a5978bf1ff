// Package config holds the settings and fixture data for a contract test run. Everything
// has a default, so a config file only needs to contain what it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jobreach/email-api-contract-tests/servicedef"

	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "https://jobreach-1.preview.emergentagent.com"

// Config is the complete configuration of a run.
type Config struct {
	// BaseURL is the deployment under test; requests go to BaseURL + "/api" + path.
	BaseURL string `yaml:"baseUrl"`

	// ShortTimeout applies to metadata and listing calls.
	ShortTimeout time.Duration `yaml:"shortTimeout"`
	// UploadTimeout applies to file uploads.
	UploadTimeout time.Duration `yaml:"uploadTimeout"`
	// LongTimeout applies to calls that wait for AI content generation.
	LongTimeout time.Duration `yaml:"longTimeout"`

	// GenerationRetries is how many extra attempts the email generation scenarios get.
	// Their content checks are heuristic, so a retry can absorb a one-off odd generation.
	GenerationRetries int           `yaml:"generationRetries"`
	RetryDelay        time.Duration `yaml:"retryDelay"`

	Fixtures Fixtures `yaml:"fixtures"`
}

type Fixtures struct {
	Student           servicedef.StudentProfile `yaml:"student"`
	StudentWithResume servicedef.StudentProfile `yaml:"studentWithResume"`
	Resume            File                      `yaml:"resume"`
	InvalidUpload     File                      `yaml:"invalidUpload"`
}

// File is a file to upload.
type File struct {
	Name        string `yaml:"name"`
	ContentType string `yaml:"contentType"`
	Content     string `yaml:"content"`
}

func Default() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		ShortTimeout:  10 * time.Second,
		UploadTimeout: 30 * time.Second,
		LongTimeout:   60 * time.Second,
		RetryDelay:    2 * time.Second,
		Fixtures: Fixtures{
			Student: servicedef.StudentProfile{
				Name:                "Alice Johnson",
				College:             "Harvard University",
				Degree:              "Computer Science",
				Skills:              "Python, JavaScript, React, Node.js",
				JobPreference:       "Full Stack Developer",
				PersonalizationNote: "I have 2 years of internship experience and built 5 web applications",
			},
			StudentWithResume: servicedef.StudentProfile{
				Name:                "Bob Smith",
				College:             "MIT",
				Degree:              "Software Engineering",
				Skills:              "Python, Machine Learning, TensorFlow",
				JobPreference:       "ML Engineer",
				PersonalizationNote: "Passionate about AI and deep learning",
			},
			Resume: File{
				Name:        "test_resume.pdf",
				ContentType: "application/pdf",
				Content:     "Mock PDF content for testing",
			},
			InvalidUpload: File{
				Name:        "test_file.txt",
				ContentType: "text/plain",
				Content:     "Invalid file content",
			},
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return c, nil
}

// Read decodes YAML over the defaults and validates the result. Unknown keys are errors.
func Read(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	c := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return Config{}, err
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("baseUrl must not be empty")
	}
	for name, d := range map[string]time.Duration{
		"shortTimeout":  c.ShortTimeout,
		"uploadTimeout": c.UploadTimeout,
		"longTimeout":   c.LongTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.GenerationRetries < 0 {
		return errors.New("generationRetries must not be negative")
	}
	if c.Fixtures.Resume.Name == "" || c.Fixtures.InvalidUpload.Name == "" {
		return errors.New("upload fixtures must have file names")
	}
	return nil
}

// APIURL is the base URL that endpoint paths are relative to.
func (c Config) APIURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/api"
}
