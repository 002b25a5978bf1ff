package framework

import "fmt"

// DuplicateKeyError is returned by ArtifactBag.Put if the key was already written in this run.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("artifact %q was already produced in this run", e.Key)
}

// MissingArtifactError is returned by ArtifactBag.Get if no scenario has produced the key.
type MissingArtifactError struct {
	Key string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("artifact %q has not been produced", e.Key)
}
