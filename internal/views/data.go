package views

// ErrorInfo is the data of the error page.
type ErrorInfo struct {
	Status  int
	Message string
}
