package model

const EventSubmissionStored = "submission.stored"

type File struct {
	Filename    string `json:"filename"`
	Field       string `json:"field"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// Event announces a submission folder that was written successfully.
type Event struct {
	ID        string            `json:"id"`
	Folder    string            `json:"folder"`
	Path      string            `json:"path"`
	Timestamp string            `json:"timestamp"`
	Fields    map[string]string `json:"fields"`
	Files     []File            `json:"files"`
}
