package entity

import "fmt"

// UploadEvent describes a finalized object. Its JSON form is the GCS object
// resource, so events published by this service decode like GCS notifications.
type UploadEvent struct {
	Bucket      string            `json:"bucket"`
	Name        string            `json:"name,omitempty"`
	ContentType string            `json:"contentType,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Size        int64             `json:"size,string,omitempty"`
}

// Location returns the "location" custom metadata value, an empty value counts as absent.
func (e UploadEvent) Location() (string, bool) {
	loc, ok := e.Metadata["location"]
	return loc, ok && loc != ""
}

func (e UploadEvent) FileURI(scheme string) string {
	return fmt.Sprintf("%s://%s/%s", scheme, e.Bucket, e.Name)
}

func (e UploadEvent) PublicURL(base string) string {
	return fmt.Sprintf("%s/%s/%s", base, e.Bucket, e.Name)
}
