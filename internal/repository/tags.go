package repository

// Cache tags grouping memoized backend reads.
const (
	TagAssignments        = "Assignments"
	TagSubmissions        = "Submissions"
	TagStudentSubmissions = "StudentSubmissions"
)
